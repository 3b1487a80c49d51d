package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

type todoService struct {
	todoRepository store.TodoRepository

	// now is the clock used for due-date bucketing.
	now func() time.Time

	logger *logger.Logger
}

func NewTodoService(todoRepository store.TodoRepository, logger *logger.Logger) TodoService {
	return &todoService{
		todoRepository: todoRepository,
		now:            time.Now,
		logger:         logger,
	}
}

// Create stores a new todo owned by ownerID. Priority and progress default
// to Medium and Todo.
func (s *todoService) Create(ctx context.Context, ownerID int64, req models.CreateTodoRequest) (models.Todo, error) {
	if req.DueDate == nil {
		return models.Todo{}, validators.NewValidationError(models.FieldError{Field: "dueDate", Message: "dueDate is required"})
	}

	todo := models.Todo{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Label:       req.Label,
		Priority:    req.Priority,
		Progress:    req.Progress,
		DueDate:     req.DueDate.Time,
		Completed:   req.Completed,
		UserID:      ownerID,
	}
	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}
	if todo.Progress == "" {
		todo.Progress = models.ProgressTodo
	}

	created, err := s.todoRepository.CreateTodo(ctx, todo)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*todoService.Create").Int64("user_id", ownerID).Msg("error creating todo")
		return models.Todo{}, fmt.Errorf("error creating todo: %w", err)
	}

	return created, nil
}

func (s *todoService) List(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	todos, err := s.todoRepository.ListTodos(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %w", err)
	}

	return todos, nil
}

func (s *todoService) ListFiltered(ctx context.Context, ownerID int64) (models.FilteredTodos, error) {
	todos, err := s.todoRepository.ListIncompleteTodos(ctx, ownerID)
	if err != nil {
		return models.FilteredTodos{}, fmt.Errorf("error listing incomplete todos: %w", err)
	}

	return PartitionByDueDate(todos, s.now()), nil
}

func (s *todoService) Get(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	todo, err := s.todoRepository.GetTodo(ctx, ownerID, id)
	if err != nil {
		return models.Todo{}, fmt.Errorf("error getting todo: %w", err)
	}

	return todo, nil
}

// Update applies the fields present in req. An empty patch returns the
// current record unchanged.
func (s *todoService) Update(ctx context.Context, ownerID, id int64, req models.UpdateTodoRequest) (models.Todo, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}

	todo, err := s.todoRepository.UpdateTodo(ctx, ownerID, id, req)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*todoService.Update").Int64("user_id", ownerID).Int64("todo_id", id).Msg("error updating todo")
		return models.Todo{}, fmt.Errorf("error updating todo: %w", err)
	}

	return todo, nil
}

// Delete removes the todo and returns its state before removal.
func (s *todoService) Delete(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	todo, err := s.todoRepository.DeleteTodo(ctx, ownerID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*todoService.Delete").Int64("user_id", ownerID).Int64("todo_id", id).Msg("error deleting todo")
		return models.Todo{}, fmt.Errorf("error deleting todo: %w", err)
	}

	return todo, nil
}

func (s *todoService) MarkCompleted(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	todo, err := s.todoRepository.MarkCompleted(ctx, ownerID, id)
	if err != nil {
		return models.Todo{}, fmt.Errorf("error completing todo: %w", err)
	}

	return todo, nil
}

// PartitionByDueDate splits the incomplete todos into overdue, today and
// upcoming relative to the local day containing now. Today spans
// 00:00:00.000 to 23:59:59.999 inclusive. Completed todos are skipped and
// every bucket is a non-nil slice.
func PartitionByDueDate(todos []models.Todo, now time.Time) models.FilteredTodos {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Millisecond)

	out := models.FilteredTodos{
		OverDue:  []models.Todo{},
		Today:    []models.Todo{},
		Upcoming: []models.Todo{},
	}

	for _, todo := range todos {
		if todo.Completed {
			continue
		}

		switch {
		case todo.DueDate.Before(startOfDay):
			out.OverDue = append(out.OverDue, todo)
		case todo.DueDate.After(endOfDay):
			out.Upcoming = append(out.Upcoming, todo)
		default:
			out.Today = append(out.Today, todo)
		}
	}

	return out
}
