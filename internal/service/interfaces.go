// Package service implements the business rules of go-todo-keeper: account
// registration and login, the access/refresh token lifecycle, owner-scoped
// todo operations and avatar uploads.
//
// Services never see transport details. Handlers pass the principal id they
// resolved from the access token, and every todo operation is scoped by it.
package service

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=AuthServiceWrapper,TodoServiceWrapper

// AuthService manages user accounts and sessions.
type AuthService interface {
	// Register creates a new account. A taken username or email yields
	// store.ErrUserAlreadyExists.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	// Login verifies the credentials and issues a fresh token pair. Unknown
	// identities and wrong passwords both yield ErrInvalidCredentials.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error)
	// Logout clears the stored refresh token of userID.
	Logout(ctx context.Context, userID int64) error
	CurrentUser(ctx context.Context, userID int64) (models.User, error)
}

// TokenService mints and verifies access and refresh tokens.
type TokenService interface {
	IssueAccessToken(user models.User) (string, error)
	IssueRefreshToken(user models.User) (string, error)
	// VerifyAccess returns ErrTokenExpired or ErrTokenInvalid on failure.
	VerifyAccess(token string) (models.AccessClaims, error)
	VerifyRefresh(token string) (models.RefreshClaims, error)
	// IssueTokenPair mints both tokens and stores the refresh token as the
	// user's single current one.
	IssueTokenPair(ctx context.Context, user models.User) (models.TokenPair, error)
	// Rotate exchanges a valid, current refresh token for a new pair. A token
	// that is no longer the stored one is rejected with ErrTokenInvalid.
	Rotate(ctx context.Context, refreshToken string) (models.TokenPair, error)
	// Authenticate verifies an access token and resolves its principal.
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

// TodoService runs owner-scoped todo operations. A todo owned by somebody
// else is indistinguishable from a missing one.
type TodoService interface {
	Create(ctx context.Context, ownerID int64, req models.CreateTodoRequest) (models.Todo, error)
	List(ctx context.Context, ownerID int64) ([]models.Todo, error)
	// ListFiltered partitions the owner's incomplete todos by due date
	// relative to the current local day.
	ListFiltered(ctx context.Context, ownerID int64) (models.FilteredTodos, error)
	Get(ctx context.Context, ownerID, id int64) (models.Todo, error)
	Update(ctx context.Context, ownerID, id int64, req models.UpdateTodoRequest) (models.Todo, error)
	Delete(ctx context.Context, ownerID, id int64) (models.Todo, error)
	MarkCompleted(ctx context.Context, ownerID, id int64) (models.Todo, error)
}

// AvatarService issues presigned avatar uploads and attaches confirmed ones
// to the user's profile.
type AvatarService interface {
	CreateUploadURL(ctx context.Context, userID int64, req models.AvatarUploadRequest) (models.AvatarUpload, error)
	ConfirmUpload(ctx context.Context, userID int64, req models.AvatarConfirmRequest) (models.User, error)
}

// AppInfoService reports build metadata for the health route.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	Health(ctx context.Context) models.HealthInfo
}

// AuthServiceWrapper defines middleware composition for AuthService.
// Implementations wrap an existing AuthService to add behavior such as
// validating.
type AuthServiceWrapper interface {
	Wrap(AuthService) AuthService
}

// TodoServiceWrapper is the TodoService counterpart of AuthServiceWrapper.
type TodoServiceWrapper interface {
	Wrap(TodoService) TodoService
}
