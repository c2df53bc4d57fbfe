package matrix

import (
	"fmt"
	"strings"
)

// SplitUserID splits "@localpart:domain" into its localpart and domain.
// The domain is everything after the first colon, so it may carry a port.
func SplitUserID(userID string) (string, string, error) {
	if !strings.HasPrefix(userID, "@") {
		return "", "", fmt.Errorf("user ID %q does not start with '@'", userID)
	}
	localpart, domain, ok := strings.Cut(userID[1:], ":")
	if !ok || localpart == "" || domain == "" {
		return "", "", fmt.Errorf("user ID %q is not of the form @localpart:domain", userID)
	}
	return localpart, domain, nil
}

// IsLocalUser reports whether userID ends with ":"+domain.
//
// This is a suffix match, not a parse: "@u:sub.example.com" is not local to
// "example.com" because the separator is part of the suffix.
func IsLocalUser(userID, domain string) bool {
	if domain == "" {
		return false
	}
	return strings.HasSuffix(userID, ":"+domain)
}
