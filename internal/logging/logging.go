// Package logging wires the application loggers: an slog multi-handler for
// the pipeline and a zerolog logger for the storage and influx managers,
// with an optional Graylog (GELF) sink.
package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath builds a session log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}
