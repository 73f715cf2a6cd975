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
	"github.com/MKhiriev/go-taskpro/internal/utils"
	"github.com/MKhiriev/go-taskpro/models"
)

const (
	verificationTokenBytes = 32
	verificationSubject    = "Verify your TaskPro email"
)

// authService is the concrete implementation of AuthService.
// Input is expected to be validated already (see [AuthValidationService]).
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	tokenService TokenService
	hasher       crypto.PasswordHasher
	notifier     Notifier
	ids          *utils.UUIDGenerator

	// publicURL prefixes confirmation links.
	publicURL string

	// allowUnconfirmedLogin admits users who have not confirmed their email.
	allowUnconfirmedLogin bool

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	tokenService TokenService,
	hasher crypto.PasswordHasher,
	notifier Notifier,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:        userRepository,
		tokenService:          tokenService,
		hasher:                hasher,
		notifier:              notifier,
		ids:                   utils.NewUUIDGenerator(),
		publicURL:             strings.TrimRight(cfg.App.PublicURL, "/"),
		allowUnconfirmedLogin: cfg.Auth.AllowUnconfirmedLogin,
		logger:                logger,
	}
}

// Register hashes the password, stores an unconfirmed account with the
// default theme and sends the confirmation link.
//
// A failed notification does not fail the registration: the user can ask
// for the link again via ResendVerification.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	verificationToken, err := crypto.RandomToken(verificationTokenBytes)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		ID:                a.ids.Generate(),
		Email:             normalizeEmail(req.Email),
		Name:              strings.TrimSpace(req.Name),
		PasswordHash:      hash,
		Theme:             models.DefaultTheme,
		VerificationToken: verificationToken,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		return models.User{}, ErrEmailAlreadyExists
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.sendVerification(ctx, user)

	return user, nil
}

// Login authenticates an existing user and opens a new session.
//
// An unknown email still pays for one hash comparison, so response time
// does not tell registered addresses apart.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, store.ErrNoUserWasFound) {
		a.hasher.CompareDummy(req.Password)
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return models.User{}, models.TokenPair{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = a.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Info().Str("user_id", user.ID).Msg("wrong password")
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}

	if !user.Verified && !a.allowUnconfirmedLogin {
		return models.User{}, models.TokenPair{}, ErrEmailNotConfirmed
	}

	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

func (a *authService) Verify(ctx context.Context, verificationToken string) (models.User, error) {
	user, err := a.userRepository.FindUserByVerificationToken(ctx, verificationToken)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by verification token failed: %w", err)
	}

	verified, err := a.userRepository.MarkVerified(ctx, user.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("error confirming email: %w", err)
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID).Msg("email confirmed")
	return verified, nil
}

// ResendVerification answers the same way for unknown, confirmed and
// unconfirmed addresses.
func (a *authService) ResendVerification(ctx context.Context, req models.VerifyEmailRequest) error {
	user, err := a.userRepository.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, store.ErrNoUserWasFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("user search by email failed: %w", err)
	}

	if user.Verified || user.VerificationToken == "" {
		return nil
	}

	a.sendVerification(ctx, user)
	return nil
}

func (a *authService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	return a.tokenService.RotateRefresh(ctx, req.RefreshToken)
}

func (a *authService) Logout(ctx context.Context, sessionID string) error {
	return a.tokenService.RevokeSession(ctx, sessionID)
}

func (a *authService) Current(ctx context.Context, userID string) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}

func (a *authService) sendVerification(ctx context.Context, user models.User) {
	link := a.publicURL + "/api/users/verify/" + user.VerificationToken
	body := fmt.Sprintf("Hello, %s!\n\nConfirm your email by opening the link below:\n%s\n", user.Name, link)

	if err := a.notifier.SendNotification(ctx, user.Email, verificationSubject, body); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*authService.sendVerification").
			Str("user_id", user.ID).
			Msg("error sending confirmation email")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
