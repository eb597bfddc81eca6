package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/isseis/go-path-filename/internal/safefileio"
	"github.com/isseis/go-path-filename/internal/terminal"
)

const (
	logDirPerm  os.FileMode = 0o750
	logFilePerm os.FileMode = 0o600

	// SchemaVersion is attached to every record in the JSON run log.
	SchemaVersion = 1

	timestampFormat = "20060102T150405Z"
)

// ErrEmptyLogDirectory is returned by ValidateLogDir for an empty path.
var ErrEmptyLogDirectory = errors.New("log directory cannot be empty")

// Config holds all configuration for logger setup.
type Config struct {
	Level slog.Level
	// LogDir enables the JSON run log when non-empty.
	LogDir string
	// Console receives human readable output. Defaults to os.Stderr.
	Console io.Writer

	ForceInteractive    bool
	ForceNonInteractive bool

	// Capabilities overrides terminal detection, mainly for tests.
	Capabilities terminal.Capabilities
	// Now overrides the clock used for the log file name.
	Now func() time.Time
}

// Session is the result of Setup.
type Session struct {
	RunID   string
	LogPath string
	Logger  *slog.Logger

	file *os.File
}

// Close flushes and closes the run log, if any.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// NewRunID generates a lexically sortable identifier for one invocation.
func NewRunID() string {
	return ulid.Make().String()
}

// GenerateLogFilename returns the run log name for the given host, time and
// run ID.
func GenerateLogFilename(hostname string, t time.Time, runID string) string {
	return fmt.Sprintf("%s_%s_%s.json", hostname, t.UTC().Format(timestampFormat), runID)
}

// ValidateLogDir ensures the log directory exists and is a directory.
func ValidateLogDir(dir string) error {
	if dir == "" {
		return ErrEmptyLogDirectory
	}
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return fmt.Errorf("cannot create log directory %s: %w", dir, err)
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat log directory %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("log directory %s is not a directory", dir)
	}
	return nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}

// Setup builds the handler chain and installs it as the slog default.
//
// It must be called once during startup before any logging happens.
func Setup(cfg Config) (*Session, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	capabilities := cfg.Capabilities
	if capabilities == nil {
		capabilities = terminal.New(terminal.Options{
			ForceInteractive:    cfg.ForceInteractive,
			ForceNonInteractive: cfg.ForceNonInteractive,
		})
	}

	session := &Session{RunID: NewRunID()}
	var handlers []slog.Handler

	// 1. Console handler for terminals
	consoleHandler, err := NewConsoleHandler(ConsoleHandlerOptions{
		Writer: console,
		Level:  cfg.Level,
		Color:  capabilities.SupportsColor(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create console handler: %w", err)
	}
	interactive, err := NewConditionalHandler(capabilities, WhenInteractive, consoleHandler)
	if err != nil {
		return nil, fmt.Errorf("failed to create interactive handler: %w", err)
	}
	handlers = append(handlers, interactive)

	// 2. Plain text handler for pipes and CI
	text := slog.NewTextHandler(console, &slog.HandlerOptions{Level: cfg.Level})
	nonInteractive, err := NewConditionalHandler(capabilities, WhenNonInteractive, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create conditional text handler: %w", err)
	}
	handlers = append(handlers, nonInteractive)

	// 3. Machine-readable run log
	if cfg.LogDir != "" {
		if err := ValidateLogDir(cfg.LogDir); err != nil {
			return nil, fmt.Errorf("invalid log directory: %w", err)
		}

		host := hostname()
		logPath := filepath.Join(cfg.LogDir, GenerateLogFilename(host, now(), session.RunID))
		logF, err := safefileio.SafeCreateFile(logPath, logFilePerm)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		session.file = logF
		session.LogPath = logPath

		jsonHandler := slog.NewJSONHandler(logF, &slog.HandlerOptions{Level: cfg.Level})
		handlers = append(handlers, jsonHandler.WithAttrs([]slog.Attr{
			slog.String("hostname", host),
			slog.Int("pid", os.Getpid()),
			slog.Int("schema_version", SchemaVersion),
			slog.String("run_id", session.RunID),
		}))
	}

	multi, err := NewMultiHandler(handlers...)
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to create multi handler: %w", err)
	}

	session.Logger = slog.New(multi)
	slog.SetDefault(session.Logger)

	return session, nil
}
