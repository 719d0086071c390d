// Package log configures the process-wide zerolog logger.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the base logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	Service string    // optional service name attached to every log entry
}

var (
	mu         sync.Mutex
	base       zerolog.Logger
	configured bool
)

// Configure replaces the base logger. An empty or unknown Level falls back
// to LOG_LEVEL, then to info.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stdout
	}

	service := cfg.Service
	if service == "" {
		service = "omnislider"
	}

	base = zerolog.New(writer).With().
		Timestamp().
		Str("service", service).
		Logger()
	configured = true
}

func parseLevel(s string) zerolog.Level {
	for _, candidate := range []string{s, os.Getenv("LOG_LEVEL")} {
		if candidate == "" {
			continue
		}
		if level, err := zerolog.ParseLevel(candidate); err == nil {
			return level
		}
	}

	return zerolog.InfoLevel
}

// Base returns the configured base logger, configuring defaults on first
// use.
func Base() zerolog.Logger {
	mu.Lock()
	ok := configured
	mu.Unlock()

	if !ok {
		Configure(Config{})
	}

	mu.Lock()
	defer mu.Unlock()

	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
