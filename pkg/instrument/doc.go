// Package instrument provides comms.Instrumentation sinks: Prometheus
// metrics, NATS event publishing and structured logging. Combine several with
// comms.NewMultiInstrumentation.
package instrument
