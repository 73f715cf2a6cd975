package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidName      = errors.New("name must be 2 to 32 characters long")
	ErrInvalidEmail     = errors.New("email is invalid")
	ErrInvalidPassword  = errors.New("password must be 8 to 64 characters long, contain a letter and a digit and no spaces")
	ErrInvalidTheme     = errors.New("theme must be one of light, dark, violet")
	ErrInvalidComment   = errors.New("comment must be 1 to 1000 characters long")
	ErrInvalidToken     = errors.New("token is required")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
)
