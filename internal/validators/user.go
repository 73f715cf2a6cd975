package validators

import (
	"context"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MKhiriev/go-taskpro/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldTheme    = "theme"
	FieldComment  = "comment"
	FieldToken    = "token"
)

const (
	minNameLen     = 2
	maxNameLen     = 32
	maxEmailLen    = 254
	minPasswordLen = 8
	maxPasswordLen = 64
	maxCommentLen  = 1000

	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// UserValidator implements [Validator] for the account request models:
// RegisterRequest, LoginRequest, ProfileUpdateRequest, ThemeRequest,
// HelpRequest, VerifyEmailRequest and RefreshRequest.
type UserValidator struct {
}

// NewUserValidator constructs a new UserValidator
// and returns it as the Validator interface.
func NewUserValidator() Validator {
	return &UserValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Optional fields restrict validation to the named
// subset; when omitted every field of the model is checked.
func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegister(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(*value, fields...)

	case models.LoginRequest:
		return v.validateLogin(value, fields...)
	case *models.LoginRequest:
		return v.validateLogin(*value, fields...)

	case models.ProfileUpdateRequest:
		return v.validateProfileUpdate(value)
	case *models.ProfileUpdateRequest:
		return v.validateProfileUpdate(*value)

	case models.ThemeRequest:
		return validateTheme(value.Theme)
	case *models.ThemeRequest:
		return validateTheme(value.Theme)

	case models.HelpRequest:
		return v.validateHelp(value, fields...)
	case *models.HelpRequest:
		return v.validateHelp(*value, fields...)

	case models.VerifyEmailRequest:
		return validateEmail(value.Email)
	case *models.VerifyEmailRequest:
		return validateEmail(value.Email)

	case models.RefreshRequest:
		return validateToken(value.RefreshToken)
	case *models.RefreshRequest:
		return validateToken(value.RefreshToken)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateRegister(req models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldName:
			err = validateName(req.Name)
		case FieldEmail:
			err = validateEmail(req.Email)
		case FieldPassword:
			err = validatePassword(req.Password)
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// validateLogin only checks presence and shape: password strength rules
// may change, and old passwords must keep working.
func (v *UserValidator) validateLogin(req models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := validateEmail(req.Email); err != nil {
				return err
			}
		case FieldPassword:
			if req.Password == "" || len(req.Password) > maxPasswordLen {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateProfileUpdate(req models.ProfileUpdateRequest) error {
	if req.Name == nil && req.Email == nil && req.Password == nil {
		return ErrNoFieldsToUpdate
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			return err
		}
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return err
		}
	}

	return nil
}

func (v *UserValidator) validateHelp(req models.HelpRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldComment}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := validateEmail(req.Email); err != nil {
				return err
			}
		case FieldComment:
			n := utf8.RuneCountInString(strings.TrimSpace(req.Comment))
			if n == 0 || n > maxCommentLen {
				return ErrInvalidComment
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minNameLen || n > maxNameLen {
		return ErrInvalidName
	}
	return nil
}

// validateEmail accepts a bare RFC 5322 address with a dotted domain.
// Display names ("Ann <ann@x.com>") are rejected.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > maxEmailLen {
		return ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return ErrInvalidEmail
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ErrInvalidEmail
	}

	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLen || n > maxPasswordLen || len(password) > maxPasswordBytes {
		return ErrInvalidPassword
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return ErrInvalidPassword
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrInvalidPassword
	}

	return nil
}

func validateTheme(theme models.Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}
	return nil
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	return nil
}
