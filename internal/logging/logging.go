// Package logging provides the shared logger for host-side code. Device
// builds and completion-context code do not log.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	ComponentHAL     Component = "hal"
	ComponentKernel  Component = "kernel"
	ComponentConsole Component = "console"
	ComponentTerm    Component = "term"
	ComponentApp     Component = "app"
)

var level = new(slog.LevelVar)

// Default is the process-wide logger. Replace it with SetOutput for tests.
var Default = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

func init() {
	level.Set(slog.LevelWarn)
}

// SetLevel sets the minimum level for the default logger.
func SetLevel(l slog.Level) { level.Set(l) }

// SetOutput replaces the default logger with one writing to w.
func SetOutput(w io.Writer) {
	Default = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// For returns a logger tagged with the component.
func For(c Component) *slog.Logger {
	return Default.With("component", string(c))
}
