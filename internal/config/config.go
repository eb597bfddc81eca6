// Package config loads the settings shared by the commands.
//
// Values are layered, later sources winning: built-in defaults, a TOML
// file, a .env file, and finally PATHNAME_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/isseis/go-path-filename/internal/safefileio"
)

// EnvPrefix is the prefix of environment variables overriding config values.
const EnvPrefix = "PATHNAME"

// DefaultStoreDir is where records are kept unless configured otherwise.
const DefaultStoreDir = "./records"

var (
	// ErrInvalidLogLevel indicates a log level slog does not know.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidFilenameLimit indicates a negative filename limit.
	ErrInvalidFilenameLimit = errors.New("max_filename_bytes must not be negative")
)

// Config holds the settings of all commands.
type Config struct {
	// StoreDir is the record store directory.
	StoreDir string `toml:"store_dir" envconfig:"STORE_DIR"`
	// MaxFilenameBytes is a byte limit on generated filenames; 0 means the
	// default. tofilename and topath apply it to the bare encoded name and
	// have no limit by default. record and verify apply it to record
	// filenames including the extension, default 250; there it must leave
	// room for a hash fallback name plus extension (20 bytes for ".json"),
	// and smaller values make opening the store fail.
	MaxFilenameBytes int `toml:"max_filename_bytes" envconfig:"MAX_FILENAME_BYTES"`
	// HashAlgorithm is used by record and verify.
	HashAlgorithm string `toml:"hash_algorithm" envconfig:"HASH_ALGORITHM"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" envconfig:"LOG_LEVEL"`
	// LogDir, if set, receives a JSON log file per run.
	LogDir string `toml:"log_dir" envconfig:"LOG_DIR"`
	// MetricsFile, if set, receives Prometheus metrics in text format on exit.
	MetricsFile string `toml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StoreDir:      DefaultStoreDir,
		HashAlgorithm: "sha256",
		LogLevel:      "info",
	}
}

// Load builds the configuration. configPath and envFile are optional.
func Load(configPath, envFile string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		content, err := safefileio.SafeReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeTOML(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
		slog.Debug("Config file loaded", slog.String("path", configPath))
	}

	if envFile != "" {
		// Variables already present in the environment take precedence
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeTOML(content []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks the values that can be checked without touching the filesystem.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxFilenameBytes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFilenameLimit, c.MaxFilenameBytes)
	}
	return nil
}

// ParseLogLevel converts a level name into a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
	return l, nil
}
