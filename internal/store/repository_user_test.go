package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "username", "email", "fullname", "avatar", "cover_image", "password", "refresh_token", "created_at", "updated_at",
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRow(id int64, username, email string, refresh driver.Value) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).
		AddRow(id, username, email, "Full Name", "", "", "$2a$10$hash", refresh, now, now)
}

// ── CreateUser ───────────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	user := models.User{Username: "john", Email: "john@x.com", FullName: "John", Password: "$2a$10$hash"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.FullName, "", "", user.Password).
		WillReturnRows(userRow(1, user.Username, user.Email, nil))

	created, err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "john", created.Username)
	assert.Nil(t, created.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "john"})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("boom"))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "john"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)
}

// ── Find ─────────────────────────────────────────────────────────────────────

func TestFindUserByIdentity_NormalizesInput(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE username = $1 OR email = $2")).
		WithArgs("john@x.com", "john@x.com").
		WillReturnRows(userRow(7, "john", "john@x.com", "refresh"))

	user, err := repo.FindUserByIdentity(context.Background(), "  John@X.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, "refresh", *user.RefreshToken)
}

func TestFindUserByUsernameOrEmail_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("FROM users").
		WithArgs("john", "john@x.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindUserByUsernameOrEmail(context.Background(), "John", "JOHN@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindUserByID_RetriesTransientError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(pgError(pgerrcode.ConnectionFailure))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(userRow(3, "ann", "ann@x.com", nil))

	user, err := repo.FindUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByID_NonRetryableError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("FROM users").WillReturnError(pgError(pgerrcode.UndefinedTable))

	_, err := repo.FindUserByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Refresh token ────────────────────────────────────────────────────────────

func TestUpdateRefreshToken(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	token := "new-token"

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), token).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateRefreshToken(context.Background(), 1, &token))

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateRefreshToken(context.Background(), 1, nil))

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(99), nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateRefreshToken(context.Background(), 99, nil), ErrUserNotFound)
}

func TestSwapRefreshToken(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND refresh_token = $2")).
		WithArgs(int64(1), "old", "new").
		WillReturnResult(sqlmock.NewResult(0, 1))
	swapped, err := repo.SwapRefreshToken(context.Background(), 1, "old", "new")
	require.NoError(t, err)
	assert.True(t, swapped)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND refresh_token = $2")).
		WithArgs(int64(1), "old", "newer").
		WillReturnResult(sqlmock.NewResult(0, 0))
	swapped, err = repo.SwapRefreshToken(context.Background(), 1, "old", "newer")
	require.NoError(t, err)
	assert.False(t, swapped)

	mock.ExpectExec("UPDATE users").WillReturnError(sql.ErrConnDone)
	_, err = repo.SwapRefreshToken(context.Background(), 1, "a", "b")
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

// ── Avatar ───────────────────────────────────────────────────────────────────

func TestUpdateAvatar(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(int64(1), "john", "john@x.com", "John", "https://cdn/avatars/1/a.png", "", "hash", nil, time.Now(), time.Now())
	mock.ExpectQuery("UPDATE users").
		WithArgs(int64(1), "https://cdn/avatars/1/a.png").
		WillReturnRows(rows)

	user, err := repo.UpdateAvatar(context.Background(), 1, "https://cdn/avatars/1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/avatars/1/a.png", user.Avatar)

	mock.ExpectQuery("UPDATE users").WillReturnRows(sqlmock.NewRows(userRowColumns))
	_, err = repo.UpdateAvatar(context.Background(), 2, "x")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
