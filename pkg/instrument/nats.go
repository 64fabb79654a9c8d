package instrument

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// DefaultSubjectPrefix is the subject prefix used when none is given.
const DefaultSubjectPrefix = "comms.calls"

// ErrNATSURLRequired is returned by ConnectNATS without a server URL.
var ErrNATSURLRequired = errors.New("NATS server URL is required")

// Publisher is the part of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// CallEvent is the JSON document published for each event.
type CallEvent struct {
	Operation  string    `json:"operation"`
	Phase      string    `json:"phase"`
	DurationMS float64   `json:"duration_ms"`
	Time       time.Time `json:"time"`
	StatusCode int       `json:"status_code,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

// NATS publishes events to "<prefix>.<operation>.<phase>". Only PhaseTotal
// events are published unless AllPhases is set. Publish errors are reported
// through the logger and never reach the call.
type NATS struct {
	publisher Publisher
	prefix    string
	allPhases bool
	logger    comms.Logger
}

// NATSOption configures a NATS sink.
type NATSOption func(*NATS)

// WithSubjectPrefix sets the subject prefix.
func WithSubjectPrefix(prefix string) NATSOption {
	return func(n *NATS) {
		if prefix = strings.Trim(prefix, "."); prefix != "" {
			n.prefix = prefix
		}
	}
}

// WithAllPhases publishes every phase instead of only the total.
func WithAllPhases() NATSOption {
	return func(n *NATS) {
		n.allPhases = true
	}
}

// WithPublishLogger sets the logger used for publish failures.
func WithPublishLogger(logger comms.Logger) NATSOption {
	return func(n *NATS) {
		n.logger = logger
	}
}

// NewNATS creates a sink publishing through publisher, usually a *nats.Conn.
func NewNATS(publisher Publisher, opts ...NATSOption) *NATS {
	n := &NATS{
		publisher: publisher,
		prefix:    DefaultSubjectPrefix,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// ConnectNATS dials url with a client name identifying this library.
func ConnectNATS(url string, opts ...nats.Option) (*nats.Conn, error) {
	if url == "" {
		return nil, ErrNATSURLRequired
	}

	opts = append([]nats.Option{nats.Name("comms-client")}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return conn, nil
}

// Subject returns the subject an event is published to.
func (n *NATS) Subject(event comms.Event) string {
	return n.prefix + "." + subjectToken(event.Operation) + "." + subjectToken(string(event.Phase))
}

// Observe implements comms.Instrumentation.
func (n *NATS) Observe(_ context.Context, event comms.Event) {
	if !n.allPhases && event.Phase != comms.PhaseTotal {
		return
	}

	data, err := json.Marshal(CallEvent{
		Operation:  event.Operation,
		Phase:      string(event.Phase),
		DurationMS: float64(event.Duration) / float64(time.Millisecond),
		Time:       event.Time.UTC(),
		StatusCode: event.StatusCode,
		ErrorKind:  string(event.ErrorKind),
		RequestID:  event.RequestID,
	})
	if err != nil {
		n.warn("Failed to encode call event", event, err)

		return
	}

	if err := n.publisher.Publish(n.Subject(event), data); err != nil {
		n.warn("Failed to publish call event", event, err)
	}
}

func (n *NATS) warn(msg string, event comms.Event, err error) {
	if n.logger == nil {
		return
	}

	n.logger.Warn(msg, map[string]interface{}{
		"operation": event.Operation,
		"phase":     string(event.Phase),
		"error":     err.Error(),
	})
}

// subjectToken replaces characters NATS treats specially.
func subjectToken(s string) string {
	if s == "" {
		return "unknown"
	}

	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}
