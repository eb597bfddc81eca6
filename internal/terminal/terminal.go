// Package terminal detects whether output goes to an interactive terminal
// and whether that terminal should get colored output.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains environment variables that indicate CI/CD environments
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"GITLAB_CI",              // GitLab CI
	"APPVEYOR",               // AppVeyor
	"BUILDKITE",              // Buildkite
	"DRONE",                  // Drone CI
	"TF_BUILD",               // Azure DevOps
}

// colorTerminals lists TERM values (or prefixes) known to support ANSI colors
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
}

// Capabilities reports what the output terminal can do.
type Capabilities interface {
	IsInteractive() bool
	SupportsColor() bool
}

// Options configures a Detector. The zero value detects everything from the
// process environment.
type Options struct {
	ForceInteractive    bool // Force interactive mode regardless of environment
	ForceNonInteractive bool // Force non-interactive mode regardless of environment
	ForceColor          bool // Force color output regardless of environment
	DisableColor        bool // Disable color output regardless of environment

	// LookupEnv replaces os.LookupEnv.
	LookupEnv func(key string) (string, bool)
	// IsTerminal replaces the check that stdout and stderr are terminals.
	IsTerminal func() bool
}

// Detector implements Capabilities.
type Detector struct {
	opts Options
}

var _ Capabilities = (*Detector)(nil)

// New creates a Detector.
func New(opts Options) *Detector {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = stdioIsTerminal
	}
	return &Detector{opts: opts}
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func (d *Detector) getenv(key string) string {
	v, _ := d.opts.LookupEnv(key)
	return v
}

// IsInteractive determines if the current environment is interactive.
// Explicit options win; CI environments are never interactive.
func (d *Detector) IsInteractive() bool {
	if d.opts.ForceInteractive {
		return true
	}
	if d.opts.ForceNonInteractive {
		return false
	}
	if d.IsCIEnvironment() {
		return false
	}
	return d.opts.IsTerminal()
}

// IsCIEnvironment checks if running in a CI/CD environment.
func (d *Detector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		value := d.getenv(envVar)
		if value == "" {
			continue
		}
		// CI=false and friends explicitly say this is not CI
		if envVar == "CI" {
			return !isFalsy(value)
		}
		return true
	}
	return false
}

// SupportsColor decides on colored output. The order is: command line
// options, CLICOLOR_FORCE, NO_COLOR, then terminal capability and CLICOLOR.
func (d *Detector) SupportsColor() bool {
	switch {
	case d.opts.ForceColor:
		return true
	case d.opts.DisableColor:
		return false
	case isTruthy(d.getenv("CLICOLOR_FORCE")):
		return true
	}
	if _, exists := d.opts.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if !d.IsInteractive() || !d.colorTerminal() {
		return false
	}

	if cliColor := d.getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}
	return true
}

func (d *Detector) colorTerminal() bool {
	t := strings.ToLower(strings.TrimSpace(d.getenv("TERM")))
	if t == "" || t == "dumb" {
		return false
	}
	for _, c := range colorTerminals {
		if t == c || strings.HasPrefix(t, c+"-") {
			return true
		}
	}
	return strings.Contains(t, "color")
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func isFalsy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0", "no":
		return true
	default:
		return false
	}
}
