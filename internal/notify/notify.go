// Package notify defines the signal channel the capture engine reports
// through. The engine never blocks on a sink and tolerates a no-op.
package notify

import "log"

// Event carries a user-visible message plus a machine-readable kind from
// the recognition outcome taxonomy.
type Event struct {
	Kind    string
	Message string
}

// Sink receives user-facing signals from the capture engine.
type Sink interface {
	Info(Event)
	Warn(Event)
	Error(Event)
}

// LogSink writes events to the standard logger.
type LogSink struct{}

func (LogSink) Info(e Event)  { log.Printf("INFO  [%s] %s", e.Kind, e.Message) }
func (LogSink) Warn(e Event)  { log.Printf("WARN  [%s] %s", e.Kind, e.Message) }
func (LogSink) Error(e Event) { log.Printf("ERROR [%s] %s", e.Kind, e.Message) }

// Noop discards all events.
type Noop struct{}

func (Noop) Info(Event)  {}
func (Noop) Warn(Event)  {}
func (Noop) Error(Event) {}
