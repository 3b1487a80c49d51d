package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate_Layouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "date only is local midnight",
			input: "2026-03-14",
			want:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "zone-less datetime is local",
			input: "2026-03-14T18:30:00",
			want:  time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local),
		},
		{
			name:  "rfc3339 keeps offset",
			input: "2026-03-14T18:30:00Z",
			want:  time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 nano",
			input: "2026-03-14T23:59:59.999Z",
			want:  time.Date(2026, 3, 14, 23, 59, 59, 999_000_000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseDueDate_Invalid(t *testing.T) {
	_, err := ParseDueDate("next tuesday")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestDueDate_UnmarshalJSON_InRequest(t *testing.T) {
	var req CreateTodoRequest
	err := json.Unmarshal([]byte(`{"title":"Buy milk","dueDate":"2026-03-14"}`), &req)
	require.NoError(t, err)
	require.NotNil(t, req.DueDate)
	assert.Equal(t, 14, req.DueDate.Day())
}

func TestDueDate_UnmarshalJSON_RejectsGarbage(t *testing.T) {
	var req CreateTodoRequest
	err := json.Unmarshal([]byte(`{"title":"Buy milk","dueDate":"soon"}`), &req)
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestUpdateTodoRequest_IsEmpty(t *testing.T) {
	assert.True(t, UpdateTodoRequest{}.IsEmpty())

	title := "x"
	assert.False(t, UpdateTodoRequest{Title: &title}.IsEmpty())
}

func TestUser_Public_StripsSecrets(t *testing.T) {
	token := "refresh"
	u := User{ID: 1, Username: "ann", Password: "$2a$10$hash", RefreshToken: &token}

	public := u.Public()
	assert.Empty(t, public.Password)
	assert.Nil(t, public.RefreshToken)
	assert.Equal(t, "ann", public.Username)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "refresh")
}

func TestLoginRequest_Identity(t *testing.T) {
	assert.Equal(t, "ann@x.com", LoginRequest{Email: "ann@x.com", Username: "ann"}.Identity())
	assert.Equal(t, "ann", LoginRequest{Username: "ann"}.Identity())
}

func TestNewErrorResponse_NormalizesNilErrors(t *testing.T) {
	resp := NewErrorResponse(404, "Todo not found", nil)
	assert.NotNil(t, resp.Errors)
	assert.False(t, resp.Success)
	assert.True(t, NewResponse(201, nil, "ok").Success)
}
