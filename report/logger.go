package report

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var logLevel = new(slog.LevelVar)

var logger = slog.New(slog.DiscardHandler)

// logFile is the open structured log file, if any.
var logFile *os.File

// Logger returns the structured compilation logger.  It records phase timings
// and every reported diagnostic independently of the console log level.
func Logger() *slog.Logger {
	return logger
}

// InitLogger builds the structured logger.  When debug is set, records are
// written as text to standard error.  When path is non-empty, records are also
// written as JSON to that file.  With neither, records are discarded.
func InitLogger(debug bool, path string) error {
	var handlers []slog.Handler

	if debug {
		logLevel.Set(slog.LevelDebug)
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}

		logFile = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	if len(handlers) == 0 {
		logger = slog.New(slog.DiscardHandler)
		return nil
	}

	logger = slog.New(slogmulti.Fanout(handlers...))
	return nil
}

// CloseLogger flushes and closes the structured log file, if any.
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
