// Package logging assembles structured slog loggers used across SquadVault
// commands.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// provides a no-op logger for tests and wiring code that cannot fail. Component
// loggers are derived with logger.With("component", ...) so every log line
// names the subsystem it came from.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape and routing as the rest of the system.
package logging
