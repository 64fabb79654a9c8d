package instrument

import (
	"context"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Logging writes one record per completed call. Failures are logged at warn
// level, successes at debug. Phase events are logged at debug when Phases is set.
type Logging struct {
	Logger comms.Logger
	Phases bool
}

// NewLogging creates a logging sink.
func NewLogging(logger comms.Logger) *Logging {
	return &Logging{Logger: logger}
}

// Observe implements comms.Instrumentation.
func (l *Logging) Observe(_ context.Context, event comms.Event) {
	if l.Logger == nil {
		return
	}

	fields := map[string]interface{}{
		"operation":   event.Operation,
		"phase":       string(event.Phase),
		"duration_ms": event.Duration.Milliseconds(),
	}

	if event.StatusCode != 0 {
		fields["status"] = event.StatusCode
	}

	if event.RequestID != "" {
		fields["request_id"] = event.RequestID
	}

	if event.Phase != comms.PhaseTotal {
		if l.Phases {
			l.Logger.Debug("Call phase", fields)
		}

		return
	}

	if event.Failed() {
		fields["kind"] = string(event.ErrorKind)
		l.Logger.Warn("Call failed", fields)

		return
	}

	l.Logger.Debug("Call completed", fields)
}
