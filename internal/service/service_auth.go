package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It handles registration, credential verification and logout using a
// UserRepository for persistence, bcrypt for password hashing and a
// TokenService for the session tokens.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenService mints and persists the token pair on login.
	tokenService TokenService

	// bcryptCost is the work factor used when hashing new passwords.
	bcryptCost int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and TokenService.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, tokenService TokenService, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenService:   tokenService,
		bcryptCost:     cfg.BcryptCost,
		logger:         logger,
	}
}

// Register creates a new user account.
//
// Username and email are trimmed and lower-cased, and the full name is
// trimmed. A user holding the same username or email is looked up before
// the insert; the unique indexes catch whatever slips past that check.
//
// Returns the persisted user without its secrets or:
//   - store.ErrUserAlreadyExists if the username or email is taken.
//   - *validators.ValidationError if bcrypt refuses the password length.
//   - A wrapped storage or hashing error otherwise.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	user := models.User{
		Username: normalizeIdentity(req.Username),
		Email:    normalizeIdentity(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Password: req.Password,
	}

	_, err := a.userRepository.FindUserByUsernameOrEmail(ctx, user.Username, user.Email)
	if err == nil {
		log.Info().Str("func", "*authService.Register").
			Str("username", user.Username).
			Str("email", user.Email).
			Msg("user already exists")
		return models.User{}, store.ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		log.Err(err).Str("func", "*authService.Register").Msg("error checking existing users")
		return models.User{}, fmt.Errorf("error checking existing users: %w", err)
	}

	if err = a.hashPasswordIfChanged(&user, ""); err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return models.User{}, validators.NewValidationError(models.FieldError{
				Field:   "password",
				Message: "password must be at most 72 bytes",
			})
		}
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.User{}, err
	}

	created, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Str("username", user.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return created.Public(), nil
}

// Login authenticates an existing user and starts a session.
//
// When both username and email are supplied the account may match either of
// them. Unknown accounts and wrong passwords are reported identically as
// ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error) {
	log := logger.FromContext(ctx)

	username := normalizeIdentity(req.Username)
	email := normalizeIdentity(req.Email)
	if username == "" && email == "" {
		return models.LoginResult{}, ErrIdentityRequired
	}

	var (
		user models.User
		err  error
	)
	if username != "" && email != "" {
		user, err = a.userRepository.FindUserByUsernameOrEmail(ctx, username, email)
	} else {
		user, err = a.userRepository.FindUserByIdentity(ctx, username+email)
	}
	if errors.Is(err, store.ErrUserNotFound) {
		log.Info().Str("func", "*authService.Login").Str("username", username).Str("email", email).Msg("user not found")
		return models.LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("user search by identity failed")
		return models.LoginResult{}, fmt.Errorf("user search by identity failed: %w", err)
	}

	if !utils.ComparePassword(user.Password, req.Password) {
		log.Info().Str("func", "*authService.Login").Int64("user_id", user.ID).Msg("wrong password")
		return models.LoginResult{}, ErrInvalidCredentials
	}

	pair, err := a.tokenService.IssueTokenPair(ctx, user)
	if err != nil {
		return models.LoginResult{}, fmt.Errorf("error issuing tokens: %w", err)
	}

	return models.LoginResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout unsets the stored refresh token so that no refresh succeeds until
// the next login. Outstanding access tokens stay valid until they expire.
func (a *authService) Logout(ctx context.Context, userID int64) error {
	if err := a.userRepository.UpdateRefreshToken(ctx, userID, nil); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*authService.Logout").Int64("user_id", userID).Msg("error clearing refresh token")
		return fmt.Errorf("error clearing refresh token: %w", err)
	}

	return nil
}

func (a *authService) CurrentUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("error loading current user: %w", err)
	}

	return user.Public(), nil
}

// hashPasswordIfChanged replaces user.Password with its bcrypt hash unless it
// still equals stored, the hash already persisted for the user. New users
// pass an empty stored value.
func (a *authService) hashPasswordIfChanged(user *models.User, stored string) error {
	if user.Password == stored && utils.IsPasswordHash(stored) {
		return nil
	}

	hash, err := utils.HashPassword(user.Password, a.bcryptCost)
	if err != nil {
		return err
	}

	user.Password = hash
	return nil
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
