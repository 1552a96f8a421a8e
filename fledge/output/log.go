package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the structured logger for diagnostics. It writes to stderr so
// it never mixes with generated output on stdout.
var Logger = newLogger(os.Stderr, false)

var logOut io.Writer = os.Stderr

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "hatch",
		ReportTimestamp: verbose,
	})
}

// SetupLogging configures the logger based on verbosity.
func SetupLogging(verbose bool) {
	Logger = newLogger(logOut, verbose)
}

// SetLogOutput points the logger at w, keeping the current level.
// A nil writer restores os.Stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logOut = w
	Logger.SetOutput(w)
}

// Debug logs a debug message with key/value pairs.
func Debug(msg string, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

// Warn logs a warning with key/value pairs.
func Warn(msg string, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}
