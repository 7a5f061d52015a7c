package domain

import "errors"

var (
	ErrMemoNotFound       = errors.New("memo not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidMemoType is a validation failure for a memoType outside {1, 2}
	ErrInvalidMemoType = &ValidationError{Field: "memoType", Message: "Invalid memoType."}
)

// ValidationError is a client-correctable failure on a single field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
