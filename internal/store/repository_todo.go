package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// todoRepository is the PostgreSQL-backed implementation of
// [TodoRepository]. Queries are built with squirrel and always filter by
// both id and user_id.
type todoRepository struct {
	*DB
	logger *logger.Logger
}

// NewTodoRepository constructs a [TodoRepository] backed by the provided
// database connection and logger.
func NewTodoRepository(db *DB, logger *logger.Logger) TodoRepository {
	logger.Debug().Msg("creating todo repository")
	return &todoRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *todoRepository) CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertTodoQuery(todo)
	if err != nil {
		log.Err(err).Str("func", "*todoRepository.CreateTodo").Msg("failed to create query")
		return models.Todo{}, err
	}

	created, err := scanTodo(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).
			Str("func", "*todoRepository.CreateTodo").
			Int64("user_id", todo.UserID).
			Msg("failed to insert todo")
		return models.Todo{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

func (r *todoRepository) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	return r.list(ctx, userID, false)
}

func (r *todoRepository) ListIncompleteTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	return r.list(ctx, userID, true)
}

func (r *todoRepository) list(ctx context.Context, userID int64, onlyIncomplete bool) ([]models.Todo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectTodosQuery(userID, onlyIncomplete)
	if err != nil {
		log.Err(err).Str("func", "*todoRepository.list").Msg("failed to create query")
		return nil, err
	}

	var todos []models.Todo
	err = r.DB.withRetry(ctx, func() error {
		var listErr error
		todos, listErr = r.queryTodos(ctx, query, args...)
		return listErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "*todoRepository.list").
			Int64("user_id", userID).
			Bool("only_incomplete", onlyIncomplete).
			Msg("failed to list todos")
		return nil, err
	}

	return todos, nil
}

func (r *todoRepository) queryTodos(ctx context.Context, query string, args ...any) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0, 16)
	for rows.Next() {
		todo, scanErr := scanTodo(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		todos = append(todos, todo)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return todos, nil
}

func (r *todoRepository) GetTodo(ctx context.Context, userID, id int64) (models.Todo, error) {
	query, args, err := buildSelectTodoQuery(userID, id)
	if err != nil {
		return models.Todo{}, err
	}

	var todo models.Todo
	err = r.DB.withRetry(ctx, func() error {
		var getErr error
		todo, getErr = scanTodo(r.DB.QueryRowContext(ctx, query, args...))
		return getErr
	})
	return r.singleResult(ctx, "*todoRepository.GetTodo", userID, id, todo, err)
}

// UpdateTodo applies patch; an empty patch returns the current record.
func (r *todoRepository) UpdateTodo(ctx context.Context, userID, id int64, patch models.UpdateTodoRequest) (models.Todo, error) {
	if patch.IsEmpty() {
		return r.GetTodo(ctx, userID, id)
	}

	query, args, err := buildUpdateTodoQuery(userID, id, patch)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := scanTodo(r.DB.QueryRowContext(ctx, query, args...))
	return r.singleResult(ctx, "*todoRepository.UpdateTodo", userID, id, todo, err)
}

func (r *todoRepository) DeleteTodo(ctx context.Context, userID, id int64) (models.Todo, error) {
	query, args, err := buildDeleteTodoQuery(userID, id)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := scanTodo(r.DB.QueryRowContext(ctx, query, args...))
	return r.singleResult(ctx, "*todoRepository.DeleteTodo", userID, id, todo, err)
}

func (r *todoRepository) MarkCompleted(ctx context.Context, userID, id int64) (models.Todo, error) {
	query, args, err := buildMarkCompletedQuery(userID, id)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := scanTodo(r.DB.QueryRowContext(ctx, query, args...))
	return r.singleResult(ctx, "*todoRepository.MarkCompleted", userID, id, todo, err)
}

// singleResult maps sql.ErrNoRows to ErrTodoNotFound and wraps other
// failures.
func (r *todoRepository) singleResult(ctx context.Context, funcName string, userID, id int64, todo models.Todo, err error) (models.Todo, error) {
	if err == nil {
		return todo, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrTodoNotFound
	}

	logger.FromContext(ctx).Err(err).
		Str("func", funcName).
		Int64("user_id", userID).
		Int64("todo_id", id).
		Msg("todo query failed")
	return models.Todo{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}

func scanTodo(row rowScanner) (models.Todo, error) {
	var todo models.Todo
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Label,
		&todo.Priority,
		&todo.Progress,
		&todo.DueDate,
		&todo.Completed,
		&todo.UserID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	return todo, err
}
