// Package logging builds the structured slog loggers used by the CLI, the
// catalog, and the HTTP API.
//
// It owns the console and JSON handlers, level parsing, and output routing,
// and exposes small attribute helpers so call sites tag log lines with the
// same keys (component, folder, event_type). NewNop gives tests and optional
// wiring a logger that discards everything.
package logging
