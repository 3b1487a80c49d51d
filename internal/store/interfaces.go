package store

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts and their single current refresh
// token.
type UserRepository interface {
	// CreateUser inserts user and returns the stored row. A duplicate
	// username or email yields ErrUserAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByUsernameOrEmail returns any user matching either value.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error)
	// FindUserByIdentity looks the identity up as a username and as an email.
	FindUserByIdentity(ctx context.Context, identity string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	// UpdateRefreshToken overwrites only the refresh_token column. A nil
	// token clears the session.
	UpdateRefreshToken(ctx context.Context, userID int64, token *string) error
	// SwapRefreshToken replaces oldToken with newToken atomically and
	// reports whether oldToken was still the stored value.
	SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (models.User, error)
}

// TodoRepository persists todos. Every method is scoped by the owner id, so
// a todo that exists but belongs to another user is reported as
// ErrTodoNotFound.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	// ListTodos returns the owner's todos in insertion order.
	ListTodos(ctx context.Context, userID int64) ([]models.Todo, error)
	// ListIncompleteTodos returns the owner's todos with completed = false.
	ListIncompleteTodos(ctx context.Context, userID int64) ([]models.Todo, error)
	GetTodo(ctx context.Context, userID, id int64) (models.Todo, error)
	// UpdateTodo applies the non-nil fields of patch and returns the
	// post-update row.
	UpdateTodo(ctx context.Context, userID, id int64, patch models.UpdateTodoRequest) (models.Todo, error)
	// DeleteTodo removes the row and returns its prior state.
	DeleteTodo(ctx context.Context, userID, id int64) (models.Todo, error)
	// MarkCompleted sets completed = true and progress = Completed.
	MarkCompleted(ctx context.Context, userID, id int64) (models.Todo, error)
}

// TodoCache stores per-user todo lists. Every invalidation advances the
// user's list version, and a list loaded at an older version is refused.
type TodoCache interface {
	// GetList returns the cached list and whether it was found.
	GetList(ctx context.Context, userID int64) ([]models.Todo, bool, error)
	// Version returns the current list version of the user. Read it before
	// loading the list that is later passed to SetList.
	Version(ctx context.Context, userID int64) (int64, error)
	// SetList stores todos unless the version has moved on, in which case
	// it returns ErrStaleCacheEntry.
	SetList(ctx context.Context, userID int64, version int64, todos []models.Todo) error
	Invalidate(ctx context.Context, userID int64) error
}

// AvatarStorage hands out presigned uploads for avatar images and confirms
// them.
type AvatarStorage interface {
	UploadURL(ctx context.Context, userID int64, contentType string, contentLength int64) (models.AvatarUpload, error)
	// ConfirmUpload checks the uploaded object and returns its public URL.
	ConfirmUpload(ctx context.Context, userID int64, key string) (string, error)
}

// StateRepository is the client-side key/value store holding serialized
// session and todo snapshots.
type StateRepository interface {
	// Get returns ErrStateNotFound when key was never saved.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
