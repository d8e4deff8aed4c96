package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"worldsim/internal/config"
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New builds the root logger. Format "json" writes one object per line,
// anything else writes the human readable console format.
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	w := out
	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()
}

// Sampled wraps a logger for per-contact messages, which can fire many
// times a substep. Bursts of 20 per second pass, then 1 in 100.
func Sampled(l zerolog.Logger) zerolog.Logger {
	return l.Sample(&zerolog.BurstSampler{
		Burst:       20,
		Period:      time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})
}
