// Package logging builds the zap logger. The terminal belongs to the UI, so
// log output always goes to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level       string // debug, info, warn, error or off
	File        string
	Development bool
}

// DefaultFile is $XDG_STATE_HOME/slotbook/slotbook.log, falling back to
// ~/.local/state.
func DefaultFile() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "slotbook", "slotbook.log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "slotbook", "slotbook.log")
}

func New(opts Options) (*zap.Logger, error) {
	if strings.EqualFold(opts.Level, "off") {
		return zap.NewNop(), nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	file := opts.File
	if file == "" {
		file = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("slotbook"), nil
}

func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
