package client

import "errors"

var (
	// ErrNotAuthenticated is returned by App helpers that require a session
	// when none is held.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrCorruptSnapshot  = errors.New("persisted snapshot is corrupt")
)
