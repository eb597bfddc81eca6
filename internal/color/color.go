// Package color wraps text in ANSI escape sequences for terminal output.
//
//nolint:revive // package name conflicts with standard library
package color

import "log/slog"

// ANSI color codes
const (
	resetCode  = "\033[0m"
	grayCode   = "\033[90m" // Bright black/gray
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	blueCode   = "\033[34m"
)

// Color wraps text with ANSI escape sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// None returns text unchanged.
func None(text string) string {
	return text
}

// Predefined color functions
var (
	Gray   = NewColor(grayCode)
	Yellow = NewColor(yellowCode)
	Red    = NewColor(redCode)
	Blue   = NewColor(blueCode)
)

// ForLevel picks the color used for a log level label: red for errors,
// yellow for warnings, blue for info and gray below that.
func ForLevel(level slog.Level) Color {
	switch {
	case level >= slog.LevelError:
		return Red
	case level >= slog.LevelWarn:
		return Yellow
	case level >= slog.LevelInfo:
		return Blue
	default:
		return Gray
	}
}
