package service

import (
	"context"

	"github.com/MKhiriev/go-taskpro/internal/validators"
	"github.com/MKhiriev/go-taskpro/models"
)

// AuthValidationService validates requests before they reach the wrapped
// [AuthService]. Rejections are returned as [ValidationError].
type AuthValidationService struct {
	inner     AuthService
	validator validators.Validator
}

func NewAuthValidationService() AuthServiceWrapper {
	return &AuthValidationService{
		validator: validators.NewUserValidator(),
	}
}

func (v *AuthValidationService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.User{}, validationError(err)
	}
	return v.inner.Register(ctx, req)
}

func (v *AuthValidationService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.TokenPair, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.TokenPair{}, validationError(err)
	}
	return v.inner.Login(ctx, req)
}

func (v *AuthValidationService) Verify(ctx context.Context, verificationToken string) (models.User, error) {
	// an empty token cannot match any account
	if verificationToken == "" {
		return models.User{}, ErrUserNotFound
	}
	return v.inner.Verify(ctx, verificationToken)
}

func (v *AuthValidationService) ResendVerification(ctx context.Context, req models.VerifyEmailRequest) error {
	if err := v.validator.Validate(ctx, req); err != nil {
		return validationError(err)
	}
	return v.inner.ResendVerification(ctx, req)
}

func (v *AuthValidationService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.TokenPair{}, validationError(err)
	}
	return v.inner.Refresh(ctx, req)
}

func (v *AuthValidationService) Logout(ctx context.Context, sessionID string) error {
	return v.inner.Logout(ctx, sessionID)
}

func (v *AuthValidationService) Current(ctx context.Context, userID string) (models.User, error) {
	return v.inner.Current(ctx, userID)
}

func (v *AuthValidationService) Wrap(inner AuthService) AuthService {
	v.inner = inner
	return v
}
