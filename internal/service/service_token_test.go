package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/mock"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── fake user repository with compare-and-set ────────────────────────────────

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[int64]models.User
}

func newMemoryUserRepo(users ...models.User) *memoryUserRepo {
	r := &memoryUserRepo{users: make(map[int64]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) FindUserByUsernameOrEmail(_ context.Context, username, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (r *memoryUserRepo) FindUserByIdentity(ctx context.Context, identity string) (models.User, error) {
	return r.FindUserByUsernameOrEmail(ctx, identity, identity)
}

func (r *memoryUserRepo) FindUserByID(_ context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) UpdateRefreshToken(_ context.Context, userID int64, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.RefreshToken = token
	r.users[userID] = u
	return nil
}

func (r *memoryUserRepo) SwapRefreshToken(_ context.Context, userID int64, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != oldToken {
		return false, nil
	}
	u.RefreshToken = &newToken
	r.users[userID] = u
	return true, nil
}

func (r *memoryUserRepo) UpdateAvatar(_ context.Context, userID int64, avatarURL string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	u.Avatar = avatarURL
	r.users[userID] = u
	return u, nil
}

func (r *memoryUserRepo) storedToken(userID int64) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID].RefreshToken
}

// ── helpers ──────────────────────────────────────────────────────────────────

func testAppConfig() config.App {
	return config.App{
		AccessTokenSecret:  "access-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenTTL:    240 * time.Hour,
		TokenIssuer:        "go-todo-keeper-test",
		BcryptCost:         4,
		Version:            "test",
	}
}

func newTestTokenSvc(repo store.UserRepository) TokenService {
	return NewTokenService(repo, testAppConfig(), logger.Nop())
}

func signExpiredAccessToken(t *testing.T, user models.User) string {
	t.Helper()
	cfg := testAppConfig()
	past := time.Now().Add(-time.Hour)
	claims := models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.TokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
		Type: models.TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessTokenSecret))
	require.NoError(t, err)
	return token
}

// ── Issue / Verify ───────────────────────────────────────────────────────────

func TestTokenService_IssueAndVerifyAccess(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())
	user := models.User{ID: 7, Username: "ann", Email: "ann@x.com"}

	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyAccess(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "ann", claims.Username)
	assert.Equal(t, "ann@x.com", claims.Email)
}

func TestTokenService_VerifyAccess_Expired(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())

	_, err := svc.VerifyAccess(signExpiredAccessToken(t, models.User{ID: 1}))
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_VerifyAccess_Invalid(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())
	user := models.User{ID: 1}

	refresh, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "refresh token used as access token", token: refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenService_VerifyAccess_WrongSecret(t *testing.T) {
	other := NewTokenService(newMemoryUserRepo(), config.App{
		AccessTokenSecret: "someone-else",
		AccessTokenTTL:    time.Minute,
		TokenIssuer:       testAppConfig().TokenIssuer,
	}, logger.Nop())

	token, err := other.IssueAccessToken(models.User{ID: 1})
	require.NoError(t, err)

	_, err = newTestTokenSvc(newMemoryUserRepo()).VerifyAccess(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RefreshTokensAreUnique(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())
	user := models.User{ID: 1}

	first, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_IssueAccessToken_MissingSecret(t *testing.T) {
	svc := NewTokenService(newMemoryUserRepo(), config.App{TokenIssuer: "x", AccessTokenTTL: time.Minute}, logger.Nop())

	_, err := svc.IssueAccessToken(models.User{ID: 1})
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

// ── IssueTokenPair ───────────────────────────────────────────────────────────

func TestTokenService_IssueTokenPair_StoresRefreshToken(t *testing.T) {
	repo := newMemoryUserRepo(models.User{ID: 1, Username: "ann", Password: "hash"})
	svc := newTestTokenSvc(repo)

	pair, err := svc.IssueTokenPair(context.Background(), models.User{ID: 1, Username: "ann"})
	require.NoError(t, err)

	stored := repo.storedToken(1)
	require.NotNil(t, stored)
	assert.Equal(t, pair.RefreshToken, *stored)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestTokenService_IssueTokenPair_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	svc := newTestTokenSvc(repo)

	repo.EXPECT().UpdateRefreshToken(gomock.Any(), int64(1), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.IssueTokenPair(context.Background(), models.User{ID: 1})
	require.Error(t, err)
}

// ── Rotate ───────────────────────────────────────────────────────────────────

func TestTokenService_Rotate_Success(t *testing.T) {
	repo := newMemoryUserRepo(models.User{ID: 1, Username: "ann"})
	svc := newTestTokenSvc(repo)
	ctx := context.Background()

	first, err := svc.IssueTokenPair(ctx, models.User{ID: 1, Username: "ann"})
	require.NoError(t, err)

	second, err := svc.Rotate(ctx, first.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, *repo.storedToken(1))
}

func TestTokenService_Rotate_ReuseFails(t *testing.T) {
	repo := newMemoryUserRepo(models.User{ID: 1})
	svc := newTestTokenSvc(repo)
	ctx := context.Background()

	first, err := svc.IssueTokenPair(ctx, models.User{ID: 1})
	require.NoError(t, err)

	_, err = svc.Rotate(ctx, first.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Rotate(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Rotate_AfterLogoutFails(t *testing.T) {
	repo := newMemoryUserRepo(models.User{ID: 1})
	svc := newTestTokenSvc(repo)
	ctx := context.Background()

	pair, err := svc.IssueTokenPair(ctx, models.User{ID: 1})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateRefreshToken(ctx, 1, nil))

	_, err = svc.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Rotate_UnknownUser(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())

	token, err := svc.IssueRefreshToken(models.User{ID: 99})
	require.NoError(t, err)

	_, err = svc.Rotate(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Rotate_Missing(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())

	_, err := svc.Rotate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenService_Rotate_AccessTokenRejected(t *testing.T) {
	repo := newMemoryUserRepo(models.User{ID: 1})
	svc := newTestTokenSvc(repo)

	pair, err := svc.IssueTokenPair(context.Background(), models.User{ID: 1})
	require.NoError(t, err)

	_, err = svc.Rotate(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// TestTokenService_Rotate_Concurrent verifies that of several rotations of
// the same token exactly one wins.
func TestTokenService_Rotate_Concurrent(t *testing.T) {
	repo := newMemoryUserRepo(models.User{ID: 1})
	svc := newTestTokenSvc(repo)
	ctx := context.Background()

	pair, err := svc.IssueTokenPair(ctx, models.User{ID: 1})
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Rotate(ctx, pair.RefreshToken); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestTokenService_Rotate_LostSwap(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	svc := newTestTokenSvc(repo)

	token, err := svc.IssueRefreshToken(models.User{ID: 3})
	require.NoError(t, err)

	gomock.InOrder(
		repo.EXPECT().FindUserByID(gomock.Any(), int64(3)).Return(models.User{ID: 3, RefreshToken: &token}, nil),
		repo.EXPECT().SwapRefreshToken(gomock.Any(), int64(3), token, gomock.Any()).Return(false, nil),
	)

	_, err = svc.Rotate(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// ── Authenticate ─────────────────────────────────────────────────────────────

func TestTokenService_Authenticate(t *testing.T) {
	stored := "refresh"
	repo := newMemoryUserRepo(models.User{ID: 1, Username: "ann", Password: "hash", RefreshToken: &stored})
	svc := newTestTokenSvc(repo)

	token, err := svc.IssueAccessToken(models.User{ID: 1, Username: "ann"})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)
	assert.Empty(t, user.Password)
	assert.Nil(t, user.RefreshToken)
}

func TestTokenService_Authenticate_DeletedUser(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo())

	token, err := svc.IssueAccessToken(models.User{ID: 5})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Authenticate_Expired(t *testing.T) {
	svc := newTestTokenSvc(newMemoryUserRepo(models.User{ID: 1}))

	_, err := svc.Authenticate(context.Background(), signExpiredAccessToken(t, models.User{ID: 1}))
	assert.ErrorIs(t, err, ErrTokenExpired)
}
