// logger.go - slog setup

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// setupLogger installs the default text logger. The terminal frontend
// passes io.Discard here so log lines do not tear the tcell screen.
func setupLogger(level string, w io.Writer) error {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "info", "":
		lv = slog.LevelInfo
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})))
	return nil
}
