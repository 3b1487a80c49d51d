// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
)

// TickerWorker calls a task on every tick of a fixed interval.
type TickerWorker struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context, now time.Time)

	logger *logger.Logger
}

// NewTickerWorker returns a worker running task every interval. A
// non-positive interval makes Run return immediately.
func NewTickerWorker(name string, interval time.Duration, task func(ctx context.Context, now time.Time), logger *logger.Logger) *TickerWorker {
	return &TickerWorker{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

func (t *TickerWorker) Run(ctx context.Context) {
	if t.interval <= 0 {
		t.logger.Warn().Str("worker", t.name).Msg("worker disabled: non-positive interval")
		return
	}

	t.logger.Info().Str("worker", t.name).Dur("interval", t.interval).Msg("worker started")
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Str("worker", t.name).Msg("worker stopped")
			return
		case now := <-ticker.C:
			t.task(ctx, now)
		}
	}
}
