// Package services defines shared utilities consumed by the publishing API
// client, the store, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers, resource
//     names, and operation names for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (transport, unexpected status, malformed response) consistently.
//
// Use these helpers when wiring new API operations so operational behaviour
// (error reporting, observability) stays uniform across the client.
package services
