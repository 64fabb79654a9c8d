package comms

import (
	"context"
	"sync"
	"time"
)

// Metrics aggregates completed calls of one operation.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
	ErrorsByKind    map[ErrorKind]int64
}

// MetricsCollector is an in-memory Instrumentation that keeps per-operation
// totals. Only PhaseTotal events are counted.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(operation string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change. The callback gets a copy.
func (m *MetricsCollector) SetOnChange(fn func(operation string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot for an operation, or nil if it was never called.
func (m *MetricsCollector) GetMetrics(operation string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[operation]
	if !ok {
		return nil
	}

	snapshot := copyMetrics(metrics)

	return &snapshot
}

// Operations returns the names of all operations seen so far.
func (m *MetricsCollector) Operations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.metrics))
	for name := range m.metrics {
		names = append(names, name)
	}

	return names
}

// Observe implements Instrumentation.
func (m *MetricsCollector) Observe(_ context.Context, event Event) {
	if event.Phase != PhaseTotal {
		return
	}

	m.mu.Lock()

	metrics, ok := m.metrics[event.Operation]
	if !ok {
		metrics = &Metrics{ErrorsByKind: make(map[ErrorKind]int64)}
		m.metrics[event.Operation] = metrics
	}

	metrics.TotalRequests++
	metrics.TotalLatency += event.Duration
	metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)

	metrics.LastRequestTime = event.Time
	if metrics.LastRequestTime.IsZero() {
		metrics.LastRequestTime = time.Now()
	}

	if event.Failed() {
		metrics.TotalErrors++
		metrics.ErrorsByKind[event.ErrorKind]++
	}

	onChange := m.onChange
	snapshot := copyMetrics(metrics)

	m.mu.Unlock()

	if onChange != nil {
		onChange(event.Operation, snapshot)
	}
}

func copyMetrics(metrics *Metrics) Metrics {
	snapshot := *metrics

	snapshot.ErrorsByKind = make(map[ErrorKind]int64, len(metrics.ErrorsByKind))
	for kind, count := range metrics.ErrorsByKind {
		snapshot.ErrorsByKind[kind] = count
	}

	return snapshot
}
