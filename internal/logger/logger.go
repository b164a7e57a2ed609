// Package logger provides the configured zerolog logger for the worker.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// New returns a JSON logger on stdout tagged with the service name
func New(serviceName, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, level)
}

// Errors logged with .Stack() carry a stack even when they come from
// the standard library
func init() {
	zerolog.ErrorStackMarshaler = marshalStack
}

func marshalStack(err error) interface{} {
	type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
	if _, ok := err.(stackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	return zpkgerrors.MarshalStack(err)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
