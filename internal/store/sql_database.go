package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/migrations"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"

	maxQueryAttempts = 3
	retryBackoff     = 50 * time.Millisecond
)

// DB wraps a *sql.DB with the dialect it was opened for, a logger and an
// error classifier deciding which failures are worth retrying.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// Migrate applies the embedded migrations matching the connection dialect.
func (db *DB) Migrate() error {
	if db.dialect == dialectSQLite {
		return migrations.MigrateSQLite(db.DB)
	}
	return migrations.Migrate(db.DB)
}

// withRetry runs fn up to maxQueryAttempts times while the classifier marks
// its error as retryable. Only idempotent reads go through it.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxQueryAttempts; attempt++ {
		err = fn()
		if err == nil || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "*DB.withRetry").
			Int("attempt", attempt).
			Msg("retryable database error")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}
