package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured logging seam used across services and
// adapters. Entries carry an action tag, a human message and a request
// id so log lines from one request can be stitched together.
type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type zerologLogger struct {
	log zerolog.Logger
}

// New creates a JSON logger for the given service mode.
func New(service string) Logger {
	hostname, _ := os.Hostname()

	log := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname).
		Logger()

	return &zerologLogger{log: log}
}

func (l *zerologLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.event(l.log.Info(), action, requestID, details).Msg(message)
}

func (l *zerologLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.event(l.log.Debug(), action, requestID, details).Msg(message)
}

func (l *zerologLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.event(l.log.Error().Err(err), action, requestID, details).Msg(message)
}

func (l *zerologLogger) event(e *zerolog.Event, action, requestID string, details map[string]interface{}) *zerolog.Event {
	e = e.Str("action", action)
	if requestID != "" {
		e = e.Str("request_id", requestID)
	}
	if details != nil {
		e = e.Fields(details)
	}
	return e
}
