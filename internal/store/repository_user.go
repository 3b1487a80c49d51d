package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup and refresh-token bookkeeping against
// the "users" table.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with the
// server-assigned fields (ID, CreatedAt, UpdatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUserAlreadyExists].
//   - Any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Username, user.Email, user.FullName, user.Avatar, user.CoverImage, user.Password)

	created, err := scanUser(row)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Debug().Str("func", "*userRepository.CreateUser").Msg("user already exists")
			return models.User{}, ErrUserAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

// FindUserByUsernameOrEmail returns the first user whose username equals
// username or whose email equals email.
func (r *userRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByUsernameOrEmail", findUserByUsernameOrEmail,
		normalizeIdentity(username), normalizeIdentity(email))
}

// FindUserByIdentity matches identity against both username and email.
func (r *userRepository) FindUserByIdentity(ctx context.Context, identity string) (models.User, error) {
	identity = normalizeIdentity(identity)
	return r.findOne(ctx, "*userRepository.FindUserByIdentity", findUserByUsernameOrEmail, identity, identity)
}

func (r *userRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, id)
}

func (r *userRepository) findOne(ctx context.Context, funcName, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	err := r.db.withRetry(ctx, func() error {
		var scanErr error
		user, scanErr = scanUser(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error querying user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// UpdateRefreshToken writes only the refresh_token column, so the stored
// password hash is never touched.
func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID int64, token *string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, updateRefreshToken, userID, token)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateRefreshToken").Int64("user_id", userID).Msg("error updating refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SwapRefreshToken is a compare-and-set on refresh_token. It reports false
// when the stored token no longer equals oldToken, which happens when a
// concurrent rotation already consumed it.
func (r *userRepository) SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, swapRefreshToken, userID, oldToken, newToken)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SwapRefreshToken").Int64("user_id", userID).Msg("error swapping refresh token")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return n == 1, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, updateAvatar, userID, avatarURL))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateAvatar").Int64("user_id", userID).Msg("error updating avatar")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.Password,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
