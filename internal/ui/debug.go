package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "almanac-debug.log"

// setupLogging installs a JSON logger writing to DebugLogPath when --debug
// is set. Without it, logs are discarded.
func (a *App) setupLogging() error {
	if !a.debug || a.logFile != nil {
		return nil
	}

	// Create log file in current directory with fixed name (easy to find)
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	a.logFile = f
	a.logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a.logger.Debug("debug log opened", "path", DebugLogPath, "time", time.Now().Format(time.RFC3339))
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
