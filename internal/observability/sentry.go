// Package observability wires error reporting and metrics shared by the
// HTTP and gRPC transports.
package observability

import (
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry configures the global Sentry client. An empty DSN leaves
// reporting disabled, and every capture becomes a no-op.
func InitSentry(cfg config.Observability, app config.App) error {
	if cfg.SentryDSN == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      app.Environment,
		Release:          app.Version,
		AttachStacktrace: true,
	})
}

// FlushSentry waits for buffered events to be delivered.
func FlushSentry() {
	sentry.Flush(sentryFlushTimeout)
}

// CapturePanic reports a recovered panic together with the request
// attributes in extra.
func CapturePanic(recovered any, stack []byte, extra map[string]any) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("panic", recovered)
		scope.SetExtra("stack", string(stack))
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		sentry.CaptureMessage("panic in request")
	})
}

// CaptureError reports an unexpected error that was turned into a 500.
func CaptureError(err error, extra map[string]any) {
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}
