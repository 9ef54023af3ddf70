// Package logging builds the logrus logger shared by every component.
//
// Output goes to stderr by default because stdout carries the recognized
// text (recognize subcommand) or the protocol stream (serve subcommand).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

const timeFormat = "2006-01-02 15:04:05.000"

// Fields is an alias so callers need not import logrus for structured fields.
type Fields = logrus.Fields

// New returns a logger at level writing to out. A nil out means stderr and
// an empty level means DefaultLevel.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timeFormat,
	})
	return log, nil
}

// ParseLevel accepts logrus level names, case-insensitively.
func ParseLevel(level string) (logrus.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Named returns an entry tagged with the component name.
func Named(log logrus.FieldLogger, component string) logrus.FieldLogger {
	return log.WithField("component", component)
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that do not care about diagnostics.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
