package instrument

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// OutcomeSuccess is the outcome label of calls that returned no error.
const OutcomeSuccess = "success"

// summaryObjectives returns the quantiles tracked by the duration summary.
func summaryObjectives() map[float64]float64 {
	return map[float64]float64{
		0.5:  0.010,
		0.9:  0.010,
		0.99: 0.001,
	}
}

// Prometheus records call counts and phase durations.
type Prometheus struct {
	calls      *prometheus.CounterVec
	duration   *prometheus.SummaryVec
	lastStatus *prometheus.GaugeVec
}

// NewPrometheus registers the collectors with registerer. A nil registerer
// means prometheus.DefaultRegisterer. namespace prefixes every metric name.
func NewPrometheus(registerer prometheus.Registerer, namespace string) *Prometheus {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registerer)

	return &Prometheus{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of completed calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: factory.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:  namespace,
			Name:       "call_phase_duration_seconds",
			Help:       "Summarizes the time spent in each phase of a call (in seconds)",
			Objectives: summaryObjectives(),
		}, []string{"operation", "phase"}),
		lastStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calls_last_status_code",
			Help:      "HTTP status code of the most recent call by operation",
		}, []string{"operation"}),
	}
}

// Observe implements comms.Instrumentation.
func (p *Prometheus) Observe(_ context.Context, event comms.Event) {
	p.duration.WithLabelValues(event.Operation, string(event.Phase)).Observe(event.Duration.Seconds())

	if event.Phase != comms.PhaseTotal {
		return
	}

	outcome := OutcomeSuccess
	if event.Failed() {
		outcome = string(event.ErrorKind)
	}

	p.calls.WithLabelValues(event.Operation, outcome).Inc()

	if event.StatusCode != 0 {
		p.lastStatus.WithLabelValues(event.Operation).Set(float64(event.StatusCode))
	}
}

// Calls returns the call counter, for tests and custom exporters.
func (p *Prometheus) Calls() *prometheus.CounterVec {
	return p.calls
}
