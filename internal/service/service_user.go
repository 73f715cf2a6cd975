package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/crypto"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/models"
)

const helpSubject = "TaskPro: user needs help"

type userService struct {
	userRepository store.UserRepository
	avatars        store.AvatarStorage
	hasher         crypto.PasswordHasher
	notifier       Notifier

	supportEmail string

	logger *logger.Logger
}

func NewUserService(
	userRepository store.UserRepository,
	avatars store.AvatarStorage,
	hasher crypto.PasswordHasher,
	notifier Notifier,
	cfg config.App,
	logger *logger.Logger,
) UserService {
	return &userService{
		userRepository: userRepository,
		avatars:        avatars,
		hasher:         hasher,
		notifier:       notifier,
		supportEmail:   cfg.SupportEmail,
		logger:         logger,
	}
}

func (u *userService) UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error) {
	log := logger.FromContext(ctx)

	var update models.UserUpdate
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		update.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		update.Email = &email
	}
	if req.Password != nil {
		hash, err := u.hasher.Hash(*req.Password)
		if err != nil {
			log.Err(err).Str("func", "*userService.UpdateProfile").Msg("error hashing password")
			return models.User{}, fmt.Errorf("error hashing password: %w", err)
		}
		update.PasswordHash = &hash
	}
	if avatar != nil {
		url, err := u.avatars.SaveAvatar(ctx, userID, *avatar)
		if errors.Is(err, store.ErrUnsupportedAvatar) {
			return models.User{}, validationError(err)
		}
		if err != nil {
			log.Err(err).Str("func", "*userService.UpdateProfile").Msg("error saving avatar")
			return models.User{}, fmt.Errorf("error saving avatar: %w", err)
		}
		update.AvatarURL = &url
	}

	if update.IsEmpty() {
		return models.User{}, validationError(errNoProfileChanges)
	}

	return u.update(ctx, userID, update)
}

func (u *userService) ChangeTheme(ctx context.Context, userID string, req models.ThemeRequest) (models.User, error) {
	theme := req.Theme
	return u.update(ctx, userID, models.UserUpdate{Theme: &theme})
}

// RequestHelp sends the comment to the support mailbox. The address the
// user typed is the one support replies to.
func (u *userService) RequestHelp(ctx context.Context, userID string, req models.HelpRequest) error {
	log := logger.FromContext(ctx)

	user, err := u.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("user search by id failed: %w", err)
	}

	body := fmt.Sprintf("From: %s <%s>\nReply-To: %s\n\n%s\n", user.Name, user.Email, normalizeEmail(req.Email), strings.TrimSpace(req.Comment))

	if err = u.notifier.SendNotification(ctx, u.supportEmail, helpSubject, body); err != nil {
		log.Err(err).Str("func", "*userService.RequestHelp").Str("user_id", userID).Msg("error sending help request")
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return nil
}

func (u *userService) update(ctx context.Context, userID string, update models.UserUpdate) (models.User, error) {
	user, err := u.userRepository.UpdateUser(ctx, userID, update)
	switch {
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return models.User{}, ErrEmailAlreadyExists
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.User{}, ErrUserNotFound
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "*userService.update").Str("user_id", userID).Msg("error updating user")
		return models.User{}, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}
