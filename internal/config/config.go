package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultLeaveErrorMessage is shown to users whose leave is rejected when
// leave_error_message is not configured.
const DefaultLeaveErrorMessage = "You are not allowed to leave this room."

// Keys of the module configuration mapping.
const (
	KeyRestrictedRooms   = "restricted_rooms"
	KeyLocalDomain       = "local_domain"
	KeyLeaveErrorMessage = "leave_error_message"
)

// Config is the validated module configuration. It is immutable once built by Parse.
type Config struct {
	restrictedRooms   map[string]struct{}
	localDomain       string
	leaveErrorMessage string
}

// ConfigError reports a module configuration that violates the schema.
type ConfigError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid restriction module config")
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Parse validates a raw configuration mapping and returns the typed Config.
// Unknown keys are ignored.
func Parse(raw map[string]any) (*Config, error) {
	rooms := []string{}
	if value, ok := raw[KeyRestrictedRooms]; ok {
		if value == nil {
			return nil, &ConfigError{Field: KeyRestrictedRooms, Msg: "must be a list of strings"}
		}
		if err := decodeStrict(value, &rooms); err != nil {
			return nil, &ConfigError{Field: KeyRestrictedRooms, Msg: "must be a list of strings", Err: err}
		}
	}
	for _, room := range rooms {
		if !strings.HasPrefix(room, "!") {
			return nil, &ConfigError{
				Field: KeyRestrictedRooms,
				Msg:   fmt.Sprintf("entry %q is not a valid room ID starting with '!'", room),
			}
		}
	}

	value, ok := raw[KeyLocalDomain]
	if !ok || value == nil {
		return nil, &ConfigError{Field: KeyLocalDomain, Msg: "must be a non-empty string (e.g. 'example.com')"}
	}
	var localDomain string
	if err := decodeStrict(value, &localDomain); err != nil {
		return nil, &ConfigError{Field: KeyLocalDomain, Msg: "must be a non-empty string (e.g. 'example.com')", Err: err}
	}
	if localDomain == "" {
		return nil, &ConfigError{Field: KeyLocalDomain, Msg: "must be a non-empty string (e.g. 'example.com')"}
	}

	leaveErrorMessage := DefaultLeaveErrorMessage
	if value, ok := raw[KeyLeaveErrorMessage]; ok {
		if value == nil {
			return nil, &ConfigError{Field: KeyLeaveErrorMessage, Msg: "must be a string"}
		}
		if err := decodeStrict(value, &leaveErrorMessage); err != nil {
			return nil, &ConfigError{Field: KeyLeaveErrorMessage, Msg: "must be a string", Err: err}
		}
	}

	restricted := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		restricted[room] = struct{}{}
	}

	return &Config{
		restrictedRooms:   restricted,
		localDomain:       localDomain,
		leaveErrorMessage: leaveErrorMessage,
	}, nil
}

// decodeStrict decodes without weak typing so scalars are never coerced into
// lists and numbers are never coerced into strings.
func decodeStrict(input, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// IsRestricted reports whether roomID is one of the restricted rooms.
func (c *Config) IsRestricted(roomID string) bool {
	_, ok := c.restrictedRooms[roomID]
	return ok
}

// RestrictedRooms returns a sorted copy of the restricted room IDs.
func (c *Config) RestrictedRooms() []string {
	return slices.Sorted(maps.Keys(c.restrictedRooms))
}

// LocalDomain returns the server's own domain.
func (c *Config) LocalDomain() string { return c.localDomain }

// LeaveErrorMessage returns the message sent with a rejected leave.
func (c *Config) LeaveErrorMessage() string { return c.leaveErrorMessage }
