package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SlogManager owns the application logger. Setup may be called more than
// once: the pipeline bootstraps against stderr and switches to the session
// log file once the config names one.
type SlogManager struct {
	logger *slog.Logger
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup points the logger at stdout plus the given writer. Timestamps are
// rewritten to UTC RFC3339 so log records line up with the race data,
// which is UTC throughout.
func (m *SlogManager) Setup(file io.Writer, level string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}

	m.logger = slog.New(newFanout(handlers...))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger never returns nil; before Setup it falls back to slog.Default.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// WriteLog routes a message from a named component at the given level. The
// storage writers use this as their logging callback.
func (m *SlogManager) WriteLog(component, data, level string) {
	if m.logger == nil {
		return
	}

	switch parseLevel(level) {
	case slog.LevelDebug:
		m.logger.Debug(data, "component", component)
	case slog.LevelWarn:
		m.logger.Warn(data, "component", component)
	case slog.LevelError:
		m.logger.Error(data, "component", component)
	default:
		m.logger.Info(data, "component", component)
	}
}
