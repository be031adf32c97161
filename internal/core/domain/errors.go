package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidSession       = errors.New("invalid session")
	ErrUserExists           = errors.New("user already exists")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrForbidden            = errors.New("access forbidden")
)

// ValidationError is a client-side pre-check failure that blocks a request
// before it reaches the backend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
