package session

import "errors"

var (
	ErrNotAuthenticated     = errors.New("you are not signed in")
	ErrAlreadyAuthenticated = errors.New("you are already signed in")
	ErrSessionExpired       = errors.New("session expired, please sign in again")
	ErrSuperseded           = errors.New("operation was cancelled by logout")
)
