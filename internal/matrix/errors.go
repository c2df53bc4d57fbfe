package matrix

import "fmt"

// Error is the structured error body returned to clients: {"errcode", "error"}.
type Error struct {
	Code    string `json:"errcode"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("matrix: %s: %s", e.Code, e.Message)
}

// Standard Matrix error codes.
const (
	ErrCodeForbidden    = "M_FORBIDDEN"
	ErrCodeUnknown      = "M_UNKNOWN"
	ErrCodeInvalidParam = "M_INVALID_PARAM"
	ErrCodeBadJSON      = "M_BAD_JSON"
)
