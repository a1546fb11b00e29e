// Package logging assembles the structured slog loggers used across cuesmith.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes the attribute helpers the rest of the repository logs
// with. A no-op logger is provided for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
