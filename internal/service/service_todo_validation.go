package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// TodoValidationService rejects malformed todo bodies and calls without a
// principal before they reach the wrapped TodoService.
type TodoValidationService struct {
	inner     TodoService
	validator validators.Validator
}

func NewTodoValidationService() TodoServiceWrapper {
	return &TodoValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *TodoValidationService) Create(ctx context.Context, ownerID int64, req models.CreateTodoRequest) (models.Todo, error) {
	if ownerID <= 0 {
		return models.Todo{}, ErrUnauthorized
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Todo{}, fmt.Errorf("error during todo validation before saving: %w", err)
	}

	return v.inner.Create(ctx, ownerID, req)
}

func (v *TodoValidationService) List(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	if ownerID <= 0 {
		return nil, ErrUnauthorized
	}

	return v.inner.List(ctx, ownerID)
}

func (v *TodoValidationService) ListFiltered(ctx context.Context, ownerID int64) (models.FilteredTodos, error) {
	if ownerID <= 0 {
		return models.FilteredTodos{}, ErrUnauthorized
	}

	return v.inner.ListFiltered(ctx, ownerID)
}

func (v *TodoValidationService) Get(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	if ownerID <= 0 {
		return models.Todo{}, ErrUnauthorized
	}

	return v.inner.Get(ctx, ownerID, id)
}

// Update validates only the fields present in the patch.
func (v *TodoValidationService) Update(ctx context.Context, ownerID, id int64, req models.UpdateTodoRequest) (models.Todo, error) {
	if ownerID <= 0 {
		return models.Todo{}, ErrUnauthorized
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Todo{}, fmt.Errorf("error during todo validation before updating: %w", err)
	}

	return v.inner.Update(ctx, ownerID, id, req)
}

func (v *TodoValidationService) Delete(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	if ownerID <= 0 {
		return models.Todo{}, ErrUnauthorized
	}

	return v.inner.Delete(ctx, ownerID, id)
}

func (v *TodoValidationService) MarkCompleted(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	if ownerID <= 0 {
		return models.Todo{}, ErrUnauthorized
	}

	return v.inner.MarkCompleted(ctx, ownerID, id)
}

func (v *TodoValidationService) Wrap(wrapped TodoService) TodoService {
	v.inner = wrapped
	return v
}
