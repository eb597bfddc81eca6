package color

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewColor(t *testing.T) {
	assert.Equal(t, "\033[31mERROR\033[0m", NewColor("\033[31m")("ERROR"))
}

func TestNone(t *testing.T) {
	assert.Equal(t, "plain", None("plain"))
}

func TestForLevel(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelError, "\033[31mX\033[0m"},
		{slog.LevelError + 4, "\033[31mX\033[0m"},
		{slog.LevelWarn, "\033[33mX\033[0m"},
		{slog.LevelInfo, "\033[34mX\033[0m"},
		{slog.LevelDebug, "\033[90mX\033[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, ForLevel(tt.level)("X"))
		})
	}
}
