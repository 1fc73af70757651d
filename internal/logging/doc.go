// Package logging assembles the slog loggers used by capturetime.
//
// It owns the console and JSON handlers, level parsing, the shared field keys
// and a no-op logger for tests and library callers that pass no logger.
package logging
