// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders todos for the terminal: an interactive bubbletea
// browser and lipgloss-styled formatters for one-shot CLI output.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-todo-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the interactive todo browser.
type TUI struct {
	todos     TodoSource
	buildInfo models.AppBuildInfo
	interval  time.Duration
}

// New constructs a TUI. A positive refreshInterval reloads the lists
// periodically while the browser is open.
func New(todos TodoSource, buildInfo models.AppBuildInfo, refreshInterval time.Duration) *TUI {
	return &TUI{
		todos:     todos,
		buildInfo: buildInfo,
		interval:  refreshInterval,
	}
}

// Browse blocks until the user quits or ctx is cancelled.
func (t *TUI) Browse(ctx context.Context) error {
	model := newBrowseModel(ctx, t.todos, t.buildInfo, t.interval)

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
