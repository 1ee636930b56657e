// Package logging configures the shared logger for the tailwrt CLI.
//
// Every operator-visible message goes to stderr and, when the append log
// file can be opened, to the log file as well. Log lines are timestamped
// key=value text.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DefaultLogFile is the default append log file path.
const DefaultLogFile = "/var/log/tailwrt.log"

// New builds the logger used by every tailwrt command and returns it along
// with a close function for the underlying log file.
//
// An unopenable log file is not fatal: the logger degrades to stderr only,
// with a warning, so a read-only /var/log never blocks an uninstall.
func New(verbose bool, logPath string) (*slog.Logger, func() error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tailwrt: cannot open log file %s: %v (logging to stderr only)\n", logPath, err)
		} else {
			w = io.MultiWriter(os.Stderr, f)
			closeFn = f.Close
		}
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn
}
