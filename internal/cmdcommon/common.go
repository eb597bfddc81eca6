// Package cmdcommon provides common functionality for command-line tools:
// shared flags, configuration loading, logger setup and the record store.
package cmdcommon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/isseis/go-path-filename/internal/artifactstore"
	"github.com/isseis/go-path-filename/internal/config"
	"github.com/isseis/go-path-filename/internal/filevalidator"
	"github.com/isseis/go-path-filename/internal/logging"
	"github.com/isseis/go-path-filename/internal/metrics"
	"github.com/isseis/go-path-filename/internal/pathname"
)

// ErrConflictingModes is returned when --interactive and --quiet are both set.
var ErrConflictingModes = errors.New("--interactive and --quiet are mutually exclusive")

// Flags holds the flags every command accepts.
type Flags struct {
	ConfigFile  string
	EnvFile     string
	StoreDir    string
	LogLevel    string
	LogDir      string
	MetricsFile string
	Interactive bool
	Quiet       bool

	fs *pflag.FlagSet
}

// NewFlagSet creates a flag set for the named command with the common
// flags registered. Errors are reported to stderr.
func NewFlagSet(name string, stderr io.Writer) (*pflag.FlagSet, *Flags) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigFile, "config", "", "TOML configuration file")
	fs.StringVar(&f.EnvFile, "env-file", "", "file of PATHNAME_* variables to load into the environment")
	fs.StringVarP(&f.StoreDir, "store-dir", "d", "", "record store directory (default "+config.DefaultStoreDir+")")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&f.LogDir, "log-dir", "", "directory for JSON run logs")
	fs.StringVar(&f.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	fs.BoolVar(&f.Interactive, "interactive", false, "force terminal style log output")
	fs.BoolVar(&f.Quiet, "quiet", false, "force plain log output")
	return fs, f
}

// PrintUsage writes a usage line followed by the flag defaults.
func PrintUsage(fs *pflag.FlagSet, w io.Writer, args string) {
	_, _ = fmt.Fprintf(w, "Usage: %s [flags] %s\n", filepath.Base(fs.Name()), args)
	_, _ = fmt.Fprint(w, fs.FlagUsages())
}

// Apply overlays the flags that were set on the command line onto cfg.
func (f *Flags) Apply(cfg *config.Config) error {
	if f.Interactive && f.Quiet {
		return ErrConflictingModes
	}
	changed := func(name string) bool {
		return f.fs != nil && f.fs.Changed(name)
	}
	if changed("store-dir") {
		cfg.StoreDir = f.StoreDir
	}
	if changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if changed("log-dir") {
		cfg.LogDir = f.LogDir
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.MetricsFile
	}
	return cfg.Validate()
}

// Env is the runtime shared by the commands.
type Env struct {
	Config  *config.Config
	Session *logging.Session
	Metrics *metrics.Metrics
}

// Setup loads the configuration, applies the flags and installs the logger.
// console receives log output.
func Setup(f *Flags, console io.Writer) (*Env, error) {
	cfg, err := config.Load(f.ConfigFile, f.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(cfg); err != nil {
		return nil, err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	session, err := logging.Setup(logging.Config{
		Level:               level,
		LogDir:              cfg.LogDir,
		Console:             console,
		ForceInteractive:    f.Interactive,
		ForceNonInteractive: f.Quiet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	slog.Debug("Configuration loaded",
		slog.String("run_id", session.RunID),
		slog.String("store_dir", cfg.StoreDir),
		slog.Int("max_filename_bytes", cfg.MaxFilenameBytes))

	return &Env{Config: cfg, Session: session, Metrics: metrics.New()}, nil
}

// Codec returns a codec limited to the configured filename length, or an
// unlimited one when no limit is configured.
func (e *Env) Codec() *pathname.Codec {
	return pathname.NewCodec(pathname.Options{MaxFilenameBytes: e.Config.MaxFilenameBytes})
}

// OpenStore opens the configured record store.
func (e *Env) OpenStore() (*artifactstore.Store, error) {
	store, err := artifactstore.NewStore(e.Config.StoreDir, artifactstore.Options{
		MaxFilenameLength: e.Config.MaxFilenameBytes,
		Observer:          e.Metrics,
	})
	if errors.Is(err, artifactstore.ErrFilenameLimitTooSmall) {
		return nil, fmt.Errorf("max_filename_bytes counts the record extension here: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return store, nil
}

// CreateValidator creates a file validator backed by the configured store.
func (e *Env) CreateValidator() (*filevalidator.Validator, error) {
	algorithm, err := filevalidator.AlgorithmByName(e.Config.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	store, err := e.OpenStore()
	if err != nil {
		return nil, err
	}
	return filevalidator.New(algorithm, store)
}

// Close writes the metrics file, if configured, and closes the run log.
func (e *Env) Close() error {
	var errs []error
	if e.Config.MetricsFile != "" {
		if err := e.Metrics.WriteTextfile(e.Config.MetricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.Session.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Exit codes shared by the commands.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Finish closes env and reports a close failure on stderr. A close failure
// turns a successful exit code into ExitFailure.
func Finish(env *Env, code int, stderr io.Writer) int {
	if err := env.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		if code == ExitOK {
			return ExitFailure
		}
	}
	return code
}

// Stdin is the reader used when a command is given "-" as its only argument.
var Stdin io.Reader = os.Stdin

// ReadArgs returns args, or the lines of Stdin when args is exactly "-".
func ReadArgs(args []string) ([]string, error) {
	if len(args) != 1 || args[0] != "-" {
		return args, nil
	}
	var lines []string
	scanner := bufio.NewScanner(Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return lines, nil
}
