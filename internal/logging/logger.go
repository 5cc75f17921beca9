// Package logging is the project's structured-logging seam. Server code
// logs through the Logger interface; the only production implementation
// wraps log/slog, and tests substitute no-op loggers.
package logging

import "context"

// Logger accepts slog-style alternating key/value args:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key/value pairs on
	// every record.
	With(args ...any) Logger
}
