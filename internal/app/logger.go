package app

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.AppEnv == "development" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{AddSource: true, Level: level}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	env := "development"
	if cfg != nil && cfg.AppEnv != "" {
		env = cfg.AppEnv
	}
	return slog.New(handler).With(slog.String("service", "synexis-admin"), slog.String("env", env))
}
