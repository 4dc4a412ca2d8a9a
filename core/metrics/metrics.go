package metrics

import "time"

// SolveEvent captures one solved dispatch run.
type SolveEvent struct {
	RunID    string
	Scenario string
	Approach string

	Objective     float64
	EnergyUp      float64
	EnergyDoShift float64
	EnergyDoShed  float64

	Steps    int
	Vars     int
	Duration time.Duration
	Err      string
	Time     time.Time
}

// Sink records solve events for observability purposes.
type Sink interface {
	RecordSolve(ev SolveEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}
