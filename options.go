package eventbus

import (
	"log/slog"

	"github.com/dmitrymomot/eventbus/core/event"
)

// Option configures a Bus.
type Option func(*Bus)

// WithExceptionHandler replaces the default failure reporter.
// The handler runs before Post returns the error; it cannot suppress it.
func WithExceptionHandler(h ExceptionHandler) Option {
	return func(b *Bus) {
		if h != nil {
			b.handler = h
		}
	}
}

// WithTrackPhases controls whether phase markers advance the event phase during dispatch.
// Enabled by default.
func WithTrackPhases(enabled bool) Option {
	return func(b *Bus) {
		b.trackPhases = enabled
	}
}

// WithStartShutdown creates the bus in the shutdown state; call Start to begin posting.
func WithStartShutdown(shutdown bool) Option {
	return func(b *Bus) {
		b.shutdown.Store(shutdown)
	}
}

// WithLogger configures structured logging for registration and dispatch failures.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDirectory uses a dedicated listener-list directory instead of the process-wide one.
// Buses only see events resolved through the same directory.
func WithDirectory(d *event.Directory) Option {
	return func(b *Bus) {
		if d != nil {
			b.directory = d
		}
	}
}

// WithRegistrars uses a dedicated registrar table for Register instead of DefaultRegistrars.
func WithRegistrars(r *Registrars) Option {
	return func(b *Bus) {
		if r != nil {
			b.registrars = r
		}
	}
}
