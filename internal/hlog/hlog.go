// Package hlog wires the logr API to zerolog for the whole CLI. Output goes
// to a human-readable console writer when stderr is a terminal, and to a
// rotating log file otherwise.
package hlog

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process root logger; commands derive named loggers from it.
var Logger logr.Logger = logr.Discard()

// Init configures the root logger. Errors only by default, --verbose raises
// to info, --debug to debug (which also surfaces V(1) logs).
func Init(verbose, debug bool) logr.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	w := logWriter()

	zl := zerolog.New(w)
	if IsTerminal() {
		zl = zl.Output(zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zl = zl.Level(level).With().Timestamp().Logger()

	Logger = zerologr.New(&zl)
	Logger.V(1).Info("Initialized", "level", level.String())
	return Logger
}

// IsTerminal reports whether stderr is attached to a terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "airzonectl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "state", "airzonectl")
}

func logWriter() io.Writer {
	if IsTerminal() {
		return os.Stderr
	}
	dir := stateDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, "airzonectl.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}
