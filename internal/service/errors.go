package service

import "errors"

// Account errors. The text of each error is safe to return to an API caller.
var (
	ErrValidation            = errors.New("validation failed")
	ErrEmailAlreadyExists    = errors.New("email in use")
	ErrInvalidCredentials    = errors.New("email or password is wrong")
	ErrEmailNotConfirmed     = errors.New("email is not confirmed")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotificationFailed    = errors.New("notification could not be sent")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// Token errors.
var (
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	// ErrTokenReplay is returned when a refresh token that was already
	// exchanged is presented again. Its whole session is revoked.
	ErrTokenReplay         = errors.New("refresh token reuse detected")
	ErrTokenRevoked        = errors.New("token is revoked")
	ErrTokenCreationFailed = errors.New("token creation failed")
)

// ValidationError carries the message of a rejected input. It matches
// [ErrValidation] with [errors.Is].
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(err error) error {
	return &ValidationError{Err: err}
}
