package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the diagnostic logger used across the app. Output is human-readable
// console format; pass io.Discard to silence it.
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor(),
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// Nop returns a logger that drops everything (tests).
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
