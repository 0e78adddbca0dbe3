// Package logging assembles the slog loggers used by the lusid command.
//
// It owns the console and JSON handler setup and level parsing. Library
// packages never build loggers themselves; they accept a *slog.Logger and
// fall back to Discard when given nil.
package logging
