// Package logging provides structured logging with zerolog.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return log.Logger
}

// WithCall returns a logger with call context.
func WithCall(callSid string) zerolog.Logger {
	return log.With().
		Str("callSid", callSid).
		Logger()
}

// WithTurn returns a logger with call and conversation-state context.
func WithTurn(callSid, state string) zerolog.Logger {
	return log.With().
		Str("callSid", callSid).
		Str("state", state).
		Logger()
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
