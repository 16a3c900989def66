package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Config selects the level, format and destination of a logger.
type Config struct {
	// Level is the minimum severity to emit: debug, info, warn, error, fatal.
	Level string `yaml:"level"`
	// Format is "json" or "text".
	Format string `yaml:"format"`
	// Output is "stdout", "stderr", or a file path opened for append.
	Output string `yaml:"output"`
}

// DefaultConfig is info-level JSON on stderr.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: "stderr"}
}

// NewLogger builds a logger from the configuration. A nil config uses the
// defaults; an unknown level falls back to info.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	l := New(ParseLevel(cfg.Level), output)
	switch strings.ToLower(cfg.Format) {
	case "", "json":
	case "text":
		l.jsonMode = false
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return l, nil
}

// ParseLevel maps a level name to its LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	}
}
