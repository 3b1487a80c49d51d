// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Priority is the urgency level of a todo.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Progress is the workflow stage of a todo.
type Progress string

const (
	ProgressTodo      Progress = "Todo"
	ProgressDoing     Progress = "Doing"
	ProgressCompleted Progress = "Completed"
)

// Todo is a single task owned by exactly one user.
//
// UserID is taken from the authenticated principal on creation and is never
// changed afterwards. Every read, update and delete is scoped by (ID, UserID).
type Todo struct {
	// ID is the server-assigned identifier of the todo.
	ID int64 `json:"_id"`

	// Title is the required, non-empty headline of the task.
	Title string `json:"title"`

	// Description is an optional free-form text.
	Description string `json:"description"`

	// Label is an optional category such as "work" or "home".
	Label string `json:"label"`

	// Priority defaults to [PriorityMedium].
	Priority Priority `json:"priority"`

	// Progress defaults to [ProgressTodo].
	Progress Progress `json:"progress"`

	// DueDate is the instant the task is due.
	DueDate time.Time `json:"dueDate"`

	// Completed reports whether the task has been finished.
	Completed bool `json:"completed"`

	// UserID references the owning user.
	UserID int64 `json:"userId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table associated with Todo.
func (t Todo) TableName() string {
	return "todos"
}

// FilteredTodos is the due-date partition of a user's incomplete todos.
type FilteredTodos struct {
	OverDue  []Todo `json:"overDue"`
	Today    []Todo `json:"today"`
	Upcoming []Todo `json:"upcoming"`
}

// CreateTodoRequest is the body of POST /todos/.
type CreateTodoRequest struct {
	Title       string   `json:"title" validate:"required,notblank"`
	Description string   `json:"description"`
	Label       string   `json:"label"`
	Priority    Priority `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Progress    Progress `json:"progress,omitempty" validate:"omitempty,oneof=Todo Doing Completed"`
	DueDate     *DueDate `json:"dueDate" validate:"required"`
	Completed   bool     `json:"completed"`
}

// UpdateTodoRequest is the body of PUT /todos/{id}. A nil field is left
// unchanged.
type UpdateTodoRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,notblank"`
	Description *string   `json:"description,omitempty"`
	Label       *string   `json:"label,omitempty"`
	Priority    *Priority `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Progress    *Progress `json:"progress,omitempty" validate:"omitempty,oneof=Todo Doing Completed"`
	DueDate     *DueDate  `json:"dueDate,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (r UpdateTodoRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Label == nil &&
		r.Priority == nil && r.Progress == nil && r.DueDate == nil && r.Completed == nil
}

// ErrInvalidDueDate is returned when a dueDate value matches none of the
// accepted layouts.
var ErrInvalidDueDate = errors.New("dueDate: use date (YYYY-MM-DD) or RFC3339 datetime")

// dueDateLayouts lists the accepted input formats in the order they are tried.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// DueDate is a JSON input wrapper around time.Time that accepts RFC3339
// timestamps, a zone-less "2006-01-02T15:04:05" and a date-only
// "2006-01-02". Zone-less values are read in the server's local zone; a
// date-only value is the start of that local day.
type DueDate struct {
	time.Time
}

// NewDueDate wraps t.
func NewDueDate(t time.Time) *DueDate {
	return &DueDate{Time: t}
}

// ParseDueDate parses s with the accepted dueDate layouts.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		var (
			parsed time.Time
			err    error
		)
		if layout == time.RFC3339 || layout == time.RFC3339Nano {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, ErrInvalidDueDate
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidDueDate
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return ErrInvalidDueDate
	}

	parsed, err := ParseDueDate(*raw)
	if err != nil {
		return err
	}

	d.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}
