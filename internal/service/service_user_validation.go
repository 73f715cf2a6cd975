package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-taskpro/internal/validators"
	"github.com/MKhiriev/go-taskpro/models"
)

var errNoProfileChanges = errors.New("at least one field or an avatar must be provided")

// UserValidationService validates requests before they reach the wrapped
// [UserService].
type UserValidationService struct {
	inner     UserService
	validator validators.Validator
}

func NewUserValidationService() UserServiceWrapper {
	return &UserValidationService{
		validator: validators.NewUserValidator(),
	}
}

// UpdateProfile accepts an avatar-only update; text fields, when present,
// must be valid.
func (v *UserValidationService) UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error) {
	hasFields := req.Name != nil || req.Email != nil || req.Password != nil
	if !hasFields && avatar == nil {
		return models.User{}, validationError(errNoProfileChanges)
	}
	if hasFields {
		if err := v.validator.Validate(ctx, req); err != nil {
			return models.User{}, validationError(err)
		}
	}
	return v.inner.UpdateProfile(ctx, userID, req, avatar)
}

func (v *UserValidationService) ChangeTheme(ctx context.Context, userID string, req models.ThemeRequest) (models.User, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.User{}, validationError(err)
	}
	return v.inner.ChangeTheme(ctx, userID, req)
}

func (v *UserValidationService) RequestHelp(ctx context.Context, userID string, req models.HelpRequest) error {
	if err := v.validator.Validate(ctx, req); err != nil {
		return validationError(err)
	}
	return v.inner.RequestHelp(ctx, userID, req)
}

func (v *UserValidationService) Wrap(inner UserService) UserService {
	v.inner = inner
	return v
}
