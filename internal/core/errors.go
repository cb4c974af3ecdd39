package core

import (
	"errors"
	"fmt"
)

// Support codes attached to validation failures.
const (
	CodeInvalidRegion   = "VAL001"
	CodeMissingFields   = "VAL002"
	CodeInvalidRole     = "VAL003"
	CodeDuplicateEmail  = "VAL004"
	CodeFileTooLarge    = "FILE001"
	CodeUnsupportedFile = "FILE002"
	CodeUnreadableFile  = "FILE003"
	CodeNoFile          = "FILE004"
	CodeMissingSheet    = "FILE005"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is wrapped by the validation error returned for a taken email.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// ValidationError is a client mistake. Message is safe to show as-is.
type ValidationError struct {
	Code    string
	Message string
	cause   error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func invalid(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
