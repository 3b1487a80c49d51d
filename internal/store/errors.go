package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when a user with the same username or
	// email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrTodoNotFound is returned when the todo does not exist or is owned by
	// another user. The two cases are deliberately indistinguishable.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrAvatarNotFound is returned when a confirmed avatar key has no
	// uploaded object behind it.
	ErrAvatarNotFound = errors.New("avatar not found")

	// ErrInvalidAvatar is returned for disallowed content types, sizes or
	// keys outside the caller's prefix.
	ErrInvalidAvatar = errors.New("invalid avatar")

	// ErrAvatarsDisabled is returned when no object storage is configured.
	ErrAvatarsDisabled = errors.New("avatar storage is not configured")

	// ErrStaleCacheEntry is returned by [TodoCache.SetList] when the list
	// was invalidated after the version it was loaded at.
	ErrStaleCacheEntry = errors.New("stale cache entry")

	// ErrStateNotFound is returned by the client state repository for keys
	// that were never saved.
	ErrStateNotFound = errors.New("state not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
