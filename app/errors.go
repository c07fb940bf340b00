package app

import "fmt"

// ErrorType represents the category of a registration error
type ErrorType string

const (
	ErrorTypeMissingOption      ErrorType = "missing_option"
	ErrorTypeConflictingOptions ErrorType = "conflicting_options"
	ErrorTypeInvalidFactory     ErrorType = "invalid_factory"
)

// RegistrationError reports a misconfigured registration call.
type RegistrationError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Is matches any RegistrationError of the same type
func (e *RegistrationError) Is(target error) bool {
	t, ok := target.(*RegistrationError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewRegistrationError creates a new registration error
func NewRegistrationError(errType ErrorType, message string, err error) *RegistrationError {
	return &RegistrationError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

var (
	ErrMissingOption      = NewRegistrationError(ErrorTypeMissingOption, "one of UseFactory, UseClass or UseExisting is required", nil)
	ErrConflictingOptions = NewRegistrationError(ErrorTypeConflictingOptions, "only one of UseFactory, UseClass or UseExisting may be set", nil)
	ErrInvalidFactory     = NewRegistrationError(ErrorTypeInvalidFactory, "invalid options factory", nil)
)
