package prettylog

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// SetupPrettyLogger installs a charmbracelet handler as the slog default.
// Every record carries a run_id field so log lines from concurrent build
// pipelines can be told apart.
func SetupPrettyLogger(writerForLogger io.Writer) *log.Logger {
	logHandler := log.NewWithOptions(
		writerForLogger,
		log.Options{
			// Default level. Callers can use SetLevel on the returned handler to change.
			Level:           log.InfoLevel,
			ReportTimestamp: true,
		},
	)
	logger := slog.New(logHandler).With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	return logHandler
}
