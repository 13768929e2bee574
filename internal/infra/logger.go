package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger: human-readable console output at
// debug level in development, JSON at info level everywhere else. Every
// line carries the service name so log aggregation can tell the api and
// migrate binaries apart from their neighbours.
func NewLogger(appEnv string) zerolog.Logger {
	if appEnv == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(out).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("service", "tipjar").
			Logger()
	}
	return zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().Timestamp().Str("service", "tipjar").
		Logger()
}
