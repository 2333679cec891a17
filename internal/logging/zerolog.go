package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// NewManagerLogger builds the zerolog logger handed to the database and
// influx managers. Output goes to the console and, when given, a session
// log file; when graylogAddr is non-empty a GELF writer is added to the
// multi-level writer. A failed Graylog connection is not fatal: the
// returned logger simply lacks that sink.
func NewManagerLogger(file *os.File, level string, graylogAddr string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseZerologLevel(level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
	if graylogAddr != "" {
		if gw, err := gelf.NewWriter(graylogAddr); err == nil {
			writers = append(writers, gw)
		}
	}

	mlw := zerolog.MultiLevelWriter(writers...)
	return zerolog.New(mlw).With().Timestamp().Logger()
}

func parseZerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
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
	default:
		return zerolog.InfoLevel
	}
}
