// Package metrics defines the solve event model and the sink interface
// used to record runs. Concrete sinks like PromSink and InfluxSink live in
// infra/metrics and register themselves with the factory registry; the
// factory helpers return a MultiSink automatically when multiple sinks are
// configured.
package metrics
