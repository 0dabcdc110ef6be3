// Package logging builds slog loggers for filerelay with console and JSON
// handlers, shared attribute helpers, and standardized field names.
package logging
