package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-todo-keeper/models"
)

const userColumns = `id, username, email, fullname, avatar, cover_image, password, refresh_token, created_at, updated_at`

const (
	createUser = `INSERT INTO users (username, email, fullname, avatar, cover_image, password)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING ` + userColumns + `;`

	findUserByUsernameOrEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE username = $1 OR email = $2
    LIMIT 1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE id = $1;`

	updateRefreshToken = `UPDATE users
    SET refresh_token = $2, updated_at = NOW()
    WHERE id = $1;`

	swapRefreshToken = `UPDATE users
    SET refresh_token = $3, updated_at = NOW()
    WHERE id = $1 AND refresh_token = $2;`

	updateAvatar = `UPDATE users
    SET avatar = $2, updated_at = NOW()
    WHERE id = $1
    RETURNING ` + userColumns + `;`
)

const (
	todosTable   = "todos"
	todoColumns  = "id, title, description, label, priority, progress, due_date, completed, user_id, created_at, updated_at"
	returningAll = "RETURNING " + todoColumns
)

const (
	getState    = `SELECT value FROM client_state WHERE key = ?;`
	putState    = `INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
    ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
	deleteState = `DELETE FROM client_state WHERE key = ?;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildInsertTodoQuery(todo models.Todo) (string, []any, error) {
	query, args, err := psql.Insert(todosTable).
		Columns("title", "description", "label", "priority", "progress", "due_date", "completed", "user_id").
		Values(todo.Title, todo.Description, todo.Label, todo.Priority, todo.Progress, todo.DueDate, todo.Completed, todo.UserID).
		Suffix(returningAll).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectTodosQuery selects the owner's todos ordered by id; with
// onlyIncomplete it skips completed ones.
func buildSelectTodosQuery(userID int64, onlyIncomplete bool) (string, []any, error) {
	builder := psql.Select(todoColumns).
		From(todosTable).
		Where(sq.Eq{"user_id": userID})
	if onlyIncomplete {
		builder = builder.Where(sq.Eq{"completed": false})
	}

	query, args, err := builder.OrderBy("id ASC").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectTodoQuery(userID, id int64) (string, []any, error) {
	query, args, err := psql.Select(todoColumns).
		From(todosTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateTodoQuery builds an UPDATE touching only the non-nil fields of
// patch. The patch must not be empty.
func buildUpdateTodoQuery(userID, id int64, patch models.UpdateTodoRequest) (string, []any, error) {
	builder := psql.Update(todosTable)

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Label != nil {
		builder = builder.Set("label", *patch.Label)
	}
	if patch.Priority != nil {
		builder = builder.Set("priority", *patch.Priority)
	}
	if patch.Progress != nil {
		builder = builder.Set("progress", *patch.Progress)
	}
	if patch.DueDate != nil {
		builder = builder.Set("due_date", patch.DueDate.Time)
	}
	if patch.Completed != nil {
		builder = builder.Set("completed", *patch.Completed)
	}

	query, args, err := builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningAll).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildMarkCompletedQuery(userID, id int64) (string, []any, error) {
	query, args, err := psql.Update(todosTable).
		Set("completed", true).
		Set("progress", models.ProgressCompleted).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningAll).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteTodoQuery(userID, id int64) (string, []any, error) {
	query, args, err := psql.Delete(todosTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningAll).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
