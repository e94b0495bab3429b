package main

import (
	"os"

	"github.com/rs/zerolog"
)

// newLogger returns the server's structured logger: plain JSON lines to
// stdout, suited to a process supervised by systemd/docker rather than
// watched from an interactive terminal.
func newLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
