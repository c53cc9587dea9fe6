// Package logging assembles structured slog loggers and formatting helpers used
// across the learningcenter client.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so API calls automatically tag
// log lines with the resource, the operation, and the request correlation ID.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Output goes to stderr by default so CLI data written to stdout stays
// machine-readable.
package logging
