package metrics

import (
	coremetrics "github.com/flexnode/dsm/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records solve runs in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	objective *prometheus.GaugeVec
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
// The Prometheus server should be started separately via StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dsm_solves_total",
		Help: "Total number of dispatch solves",
	}, []string{"approach", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dsm_solve_duration_seconds",
		Help:    "Wall time of one dispatch solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"approach"})
	objective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dsm_solve_objective",
		Help: "Objective value of the last solve",
	}, []string{"approach", "scenario"})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(objective); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			objective = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration, objective: objective}, nil
}

// RecordSolve increments the counter and observes duration and objective.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	status := "ok"
	if ev.Err != "" {
		status = "error"
	}
	s.solves.WithLabelValues(ev.Approach, status).Inc()
	s.duration.WithLabelValues(ev.Approach).Observe(ev.Duration.Seconds())
	if ev.Err == "" {
		s.objective.WithLabelValues(ev.Approach, ev.Scenario).Set(ev.Objective)
	}
	return nil
}
