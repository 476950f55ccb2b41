package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds a zerolog logger writing to w according to c.
// The console format is meant for terminals, json for log collectors.
func (c LoggingConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}
	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
