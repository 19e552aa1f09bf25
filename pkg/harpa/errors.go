package harpa

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField is matched by every *MissingFieldError
	ErrMissingRequiredField = errors.New("missing required field")

	ErrUnknownOperation  = errors.New("unknown operation")
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrResponseTooLarge  = errors.New("response too large")
)

// MissingFieldError reports a required parameter that was empty
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("harpa: missing required field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// MissingField returns a *MissingFieldError for field
func MissingField(field string) error {
	return &MissingFieldError{Field: field}
}

// APIError is a non-2xx reply from the remote API, body untouched
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("harpa: http %d", e.StatusCode)
	}
	return fmt.Sprintf("harpa: http %d: %s", e.StatusCode, truncate(string(e.Body), 512))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... [truncated]"
}
