package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	todos, err := h.services.TodoService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	writeResponse(w, r, http.StatusOK, todos, app.MsgTodosFetched)
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req models.CreateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := h.services.TodoService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Debug().Int64("user_id", userID).Int64("todo_id", todo.ID).Msg("todo created")
	writeResponse(w, r, http.StatusCreated, todo, app.MsgTodoCreated)
}

func (h *Handler) listFilteredTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	filtered, err := h.services.TodoService.ListFiltered(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, filtered, app.MsgTodosFetched)
}

func (h *Handler) getTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := todoTarget(w, r)
	if !ok {
		return
	}

	todo, err := h.services.TodoService.Get(r.Context(), userID, todoID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, todo, app.MsgTodoFetched)
}

func (h *Handler) updateTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := todoTarget(w, r)
	if !ok {
		return
	}

	var req models.UpdateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := h.services.TodoService.Update(r.Context(), userID, todoID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, todo, app.MsgTodoUpdated)
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, todoID, ok := todoTarget(w, r)
	if !ok {
		return
	}

	todo, err := h.services.TodoService.Delete(r.Context(), userID, todoID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Debug().Int64("user_id", userID).Int64("todo_id", todoID).Msg("todo deleted")
	writeResponse(w, r, http.StatusOK, todo, app.MsgTodoDeleted)
}

func (h *Handler) completeTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := todoTarget(w, r)
	if !ok {
		return
	}

	todo, err := h.services.TodoService.MarkCompleted(r.Context(), userID, todoID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, todo, app.MsgTodoCompleted)
}

// todoTarget resolves the principal and the {id} path parameter. An id that
// is not a positive integer cannot name any todo and answers 404.
func todoTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := principalID(w, r)
	if !ok {
		return 0, 0, false
	}

	todoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || todoID <= 0 {
		logger.FromRequest(r).Debug().Str("id", chi.URLParam(r, "id")).Msg("malformed todo id")
		writeError(w, r, http.StatusNotFound, app.MsgTodoNotFound, nil)
		return 0, 0, false
	}

	return userID, todoID, true
}
