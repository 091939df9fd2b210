// Package logging wraps zerolog with the process-wide logger used by every
// other package.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("session", id).Msg("AR entered")
//
// Always terminate an event chain with Msg or Send; an unterminated chain is
// never written.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level  string    // trace, debug, info, warn, error
	Format string    // json or console
	Output io.Writer // defaults to os.Stderr
}

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init replaces the global logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()

	mu.Lock()
	log = l
	mu.Unlock()
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With starts a child logger context, e.g. logging.With().Str("component", "hub").Logger().
func With() zerolog.Context {
	l := Logger()
	return l.With()
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }
