package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the leveled, single-line logging contract every component in
// this module depends on. Implementations must never block the caller for
// more than a write to the underlying writer.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	z zerolog.Logger
}

// New returns a Logger that writes one timestamped console line per call,
// satisfying §7's "every state transition, peer message, selection, and
// trade outcome is logged as a single timestamped line" requirement.
func New() Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	z := zerolog.New(w).With().Timestamp().Logger()
	return &logger{z: z}
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.z.Info().Msgf(format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.z.Error().Msgf(format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.z.Debug().Msgf(format, args...)
}
