package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process-wide slog logger. prod writes JSON for the log
// shipper; every other environment writes text. LOG_LEVEL overrides the
// environment default.
func Setup(env string) {
	level := slog.LevelInfo
	if env == "local" || env == "dev" {
		level = slog.LevelDebug
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			defer slog.Warn("LOG_LEVEL ignored", "value", v, "error", err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == "prod" || env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler).With("env", env))
	slog.Debug("logger initialized", "level", level.String())
}
