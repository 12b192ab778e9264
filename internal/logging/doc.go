// Package logging assembles the structured slog loggers used across hopper.
//
// It owns the console and JSON handlers, the stdout + append-only log file
// plumbing, and typed attribute helpers so components tag lines uniformly.
// Prefer these constructors over hand-rolled slog setup.
package logging
