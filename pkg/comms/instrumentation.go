package comms

import (
	"context"
	"time"
)

// Phase identifies the part of a call an Event measures.
type Phase string

const (
	PhaseCredentials Phase = "credentials"
	PhaseEncode      Phase = "encode"
	PhaseTransmit    Phase = "transmit"
	PhaseTotal       Phase = "total"
)

// Event describes one timed phase of one call. Events are emitted in phase
// order and PhaseTotal is always last, including when the call fails.
type Event struct {
	Operation  string
	Phase      Phase
	Duration   time.Duration
	Time       time.Time
	StatusCode int
	// ErrorKind is empty on success.
	ErrorKind ErrorKind
	RequestID string
}

// Failed reports whether the event belongs to a failed call.
func (e Event) Failed() bool {
	return e.ErrorKind != ""
}

// Instrumentation receives call events. Observe runs on the calling goroutine;
// a panic inside it is recovered and never changes the call's result.
type Instrumentation interface {
	Observe(ctx context.Context, event Event)
}

// InstrumentationFunc adapts a function to Instrumentation.
type InstrumentationFunc func(ctx context.Context, event Event)

// Observe calls f.
func (f InstrumentationFunc) Observe(ctx context.Context, event Event) {
	f(ctx, event)
}

// MultiInstrumentation fans events out to several sinks in order.
type MultiInstrumentation []Instrumentation

// Observe forwards event to every non-nil sink.
func (m MultiInstrumentation) Observe(ctx context.Context, event Event) {
	for _, sink := range m {
		if sink != nil {
			sink.Observe(ctx, event)
		}
	}
}

// NewMultiInstrumentation drops nil sinks and returns nil when none remain.
func NewMultiInstrumentation(sinks ...Instrumentation) Instrumentation {
	kept := make(MultiInstrumentation, 0, len(sinks))

	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}

	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return kept
	}
}
