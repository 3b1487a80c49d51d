package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var todoRowColumns = []string{
	"id", "title", "description", "label", "priority", "progress", "due_date", "completed", "user_id", "created_at", "updated_at",
}

func newTestTodoRepo(t *testing.T) (*todoRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	return &todoRepository{
		DB:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}, mock
}

func todoRows() *sqlmock.Rows {
	return sqlmock.NewRows(todoRowColumns)
}

func addTodoRow(rows *sqlmock.Rows, id, userID int64, title string, completed bool) *sqlmock.Rows {
	now := time.Now()
	progress := "Todo"
	if completed {
		progress = "Completed"
	}
	return rows.AddRow(id, title, "", "", "Medium", progress, now, completed, userID, now, now)
}

// ── CreateTodo ───────────────────────────────────────────────────────────────

func TestTodoRepository_CreateTodo(t *testing.T) {
	repo, mock := newTestTodoRepo(t)
	due := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	todo := models.Todo{
		Title:    "write tests",
		Priority: models.PriorityHigh,
		Progress: models.ProgressTodo,
		DueDate:  due,
		UserID:   5,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos (title,description,label,priority,progress,due_date,completed,user_id)")).
		WithArgs("write tests", "", "", "High", "Todo", due, false, int64(5)).
		WillReturnRows(addTodoRow(todoRows(), 1, 5, "write tests", false))

	created, err := repo.CreateTodo(context.Background(), todo)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(5), created.UserID)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_CreateTodo_Error(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery("INSERT INTO todos").WillReturnError(errors.New("boom"))

	_, err := repo.CreateTodo(context.Background(), models.Todo{Title: "x", UserID: 1})
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestTodoRepository_ListTodos(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	rows := todoRows()
	addTodoRow(rows, 1, 5, "first", false)
	addTodoRow(rows, 2, 5, "second", true)

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE user_id = $1 ORDER BY id ASC")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	todos, err := repo.ListTodos(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "first", todos[0].Title)
	assert.True(t, todos[1].Completed)
}

func TestTodoRepository_ListTodos_EmptyIsNotNil(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery("FROM todos").WithArgs(int64(5)).WillReturnRows(todoRows())

	todos, err := repo.ListTodos(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoRepository_ListIncompleteTodos(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND completed = $2")).
		WithArgs(int64(5), false).
		WillReturnRows(addTodoRow(todoRows(), 1, 5, "open", false))

	todos, err := repo.ListIncompleteTodos(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestTodoRepository_ListTodos_ScanError(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1)
	mock.ExpectQuery("FROM todos").WillReturnRows(rows)

	_, err := repo.ListTodos(context.Background(), 5)
	assert.ErrorIs(t, err, ErrScanningRow)
}

// ── Owner scoping ────────────────────────────────────────────────────────────

func TestTodoRepository_GetTodo_OtherOwnerIsNotFound(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(10), int64(6)).
		WillReturnRows(todoRows())

	_, err := repo.GetTodo(context.Background(), 6, 10)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoRepository_UpdateTodo(t *testing.T) {
	repo, mock := newTestTodoRepo(t)
	title := "renamed"
	completed := true

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos SET title = $1, completed = $2, updated_at = NOW() WHERE id = $3 AND user_id = $4")).
		WithArgs("renamed", true, int64(10), int64(5)).
		WillReturnRows(addTodoRow(todoRows(), 10, 5, "renamed", true))

	updated, err := repo.UpdateTodo(context.Background(), 5, 10, models.UpdateTodoRequest{Title: &title, Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.Completed)
}

func TestTodoRepository_UpdateTodo_EmptyPatchReturnsCurrent(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(int64(10), int64(5)).
		WillReturnRows(addTodoRow(todoRows(), 10, 5, "unchanged", false))

	todo, err := repo.UpdateTodo(context.Background(), 5, 10, models.UpdateTodoRequest{})
	require.NoError(t, err)
	assert.Equal(t, "unchanged", todo.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_UpdateTodo_NotFound(t *testing.T) {
	repo, mock := newTestTodoRepo(t)
	title := "x"

	mock.ExpectQuery("UPDATE todos").WillReturnRows(todoRows())

	_, err := repo.UpdateTodo(context.Background(), 5, 10, models.UpdateTodoRequest{Title: &title})
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoRepository_DeleteTodo_ReturnsPriorState(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1 AND user_id = $2 RETURNING")).
		WithArgs(int64(10), int64(5)).
		WillReturnRows(addTodoRow(todoRows(), 10, 5, "gone", false))

	deleted, err := repo.DeleteTodo(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Equal(t, "gone", deleted.Title)
}

func TestTodoRepository_DeleteTodo_Errors(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	mock.ExpectQuery("DELETE FROM todos").WillReturnRows(todoRows())
	_, err := repo.DeleteTodo(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	mock.ExpectQuery("DELETE FROM todos").WillReturnError(errors.New("connection reset"))
	_, err = repo.DeleteTodo(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestTodoRepository_MarkCompleted(t *testing.T) {
	repo, mock := newTestTodoRepo(t)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos SET completed = $1, progress = $2")).
			WithArgs(true, "Completed", int64(10), int64(5)).
			WillReturnRows(addTodoRow(todoRows(), 10, 5, "done", true))
	}

	first, err := repo.MarkCompleted(context.Background(), 5, 10)
	require.NoError(t, err)
	second, err := repo.MarkCompleted(context.Background(), 5, 10)
	require.NoError(t, err)

	assert.True(t, first.Completed)
	assert.Equal(t, first.Completed, second.Completed)
	assert.Equal(t, models.ProgressCompleted, second.Progress)
}
