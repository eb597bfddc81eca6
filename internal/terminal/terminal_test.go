package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func always(v bool) func() bool {
	return func() bool { return v }
}

func TestDetector_IsInteractive(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		env      map[string]string
		terminal bool
		want     bool
	}{
		{name: "terminal", terminal: true, want: true},
		{name: "not a terminal", terminal: false, want: false},
		{name: "forced interactive", opts: Options{ForceInteractive: true}, terminal: false, want: true},
		{name: "forced quiet", opts: Options{ForceNonInteractive: true}, terminal: true, want: false},
		{name: "ci", env: map[string]string{"CI": "true"}, terminal: true, want: false},
		{name: "ci explicitly off", env: map[string]string{"CI": "false"}, terminal: true, want: true},
		{name: "github actions", env: map[string]string{"GITHUB_ACTIONS": "true"}, terminal: true, want: false},
		{name: "force beats ci", opts: Options{ForceInteractive: true}, env: map[string]string{"CI": "1"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.LookupEnv = envOf(tt.env)
			opts.IsTerminal = always(tt.terminal)
			assert.Equal(t, tt.want, New(opts).IsInteractive())
		})
	}
}

func TestDetector_SupportsColor(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		env      map[string]string
		terminal bool
		want     bool
	}{
		{name: "color terminal", env: map[string]string{"TERM": "xterm-256color"}, terminal: true, want: true},
		{name: "dumb terminal", env: map[string]string{"TERM": "dumb"}, terminal: true, want: false},
		{name: "no TERM", terminal: true, want: false},
		{name: "not interactive", env: map[string]string{"TERM": "xterm"}, terminal: false, want: false},
		{name: "NO_COLOR", env: map[string]string{"TERM": "xterm", "NO_COLOR": ""}, terminal: true, want: false},
		{name: "CLICOLOR=0", env: map[string]string{"TERM": "xterm", "CLICOLOR": "0"}, terminal: true, want: false},
		{name: "CLICOLOR_FORCE", env: map[string]string{"CLICOLOR_FORCE": "1"}, terminal: false, want: true},
		{name: "force color", opts: Options{ForceColor: true}, want: true},
		{name: "disable color", opts: Options{DisableColor: true}, env: map[string]string{"TERM": "xterm"}, terminal: true, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.LookupEnv = envOf(tt.env)
			opts.IsTerminal = always(tt.terminal)
			assert.Equal(t, tt.want, New(opts).SupportsColor())
		})
	}
}
