package types

// Logger is the structured, key-value logging interface the library writes
// through. The method set matches zap.SugaredLogger's leveled *w methods, so
// a sugared zap logger satisfies it directly; logging.NewSlog adapts the
// standard library's slog.
//
// Every call site passes a constant message plus alternating key/value
// fields (e.g. "split", splitName).
type Logger interface {
	// Debug logs fine-grained diagnostic detail (per-request resolution
	// steps, delivery attempts).
	Debug(msg string, keysAndValues ...any)

	// Info logs notable but expected lifecycle events.
	Info(msg string, keysAndValues ...any)

	// Warn logs degraded but recoverable conditions, such as a visitor
	// entering offline mode or a non-recommended configuration value.
	Warn(msg string, keysAndValues ...any)

	// Error logs failures that were absorbed rather than returned, such as
	// a hook error or a dropped event.
	Error(msg string, keysAndValues ...any)

	// Fatal logs an unrecoverable condition. Production implementations
	// terminate the process afterwards; the nop logger does not.
	Fatal(msg string, keysAndValues ...any)
}
