package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// serviceName tags every event so aggregated logs from the API server, the
// audit worker goroutine and the CLIs stay attributable.
const serviceName = "gradplan"

// Setup builds the root logger all components derive from.
//   - level: trace, debug, info, warn, error, fatal or panic; anything else
//     falls back to info
//   - format: "pretty" for dev console output, everything else is JSON
//
// Components attach themselves with log.With().Str("component", ...).
func Setup(level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var writer io.Writer = os.Stdout
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}
