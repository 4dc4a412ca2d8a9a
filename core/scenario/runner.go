package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flexnode/dsm/core/metrics"
	"github.com/flexnode/dsm/core/results"
	"github.com/flexnode/dsm/core/system"
	"github.com/flexnode/dsm/infra/logger"
	"github.com/flexnode/dsm/internal/eventbus"
)

// Outcome is one solved variant of a scenario.
type Outcome struct {
	RunID    string
	Approach string
	System   *system.System
	Result   *system.Result
	Table    *results.Table
	Summary  results.Summary
	Duration time.Duration
}

// Runner solves a scenario with one or several variants, records solve
// events on the metrics sink and publishes them on an event bus.
type Runner struct {
	cfg     Config
	baseDir string
	sink    metrics.Sink
	bus     *eventbus.TypedBus[metrics.SolveEvent]
	log     logger.Logger
}

// NewRunner creates a Runner. A nil sink disables recording.
func NewRunner(cfg Config, baseDir string, sink metrics.Sink) *Runner {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Runner{
		cfg:     cfg,
		baseDir: baseDir,
		sink:    sink,
		bus:     eventbus.NewTyped[metrics.SolveEvent](),
		log:     logger.New("scenario"),
	}
}

// Events subscribes to the solve events of this runner.
func (r *Runner) Events() <-chan metrics.SolveEvent { return r.bus.Subscribe() }

// Close shuts down the event bus.
func (r *Runner) Close() { r.bus.Close() }

// Run solves the scenario with the given variant.
func (r *Runner) Run(ctx context.Context, approach string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sys, err := r.cfg.BuildSystem(approach, r.baseDir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	r.log.Infof("solving scenario=%s approach=%s steps=%d run=%s",
		r.cfg.Name, approach, sys.Horizon.Steps, runID)

	start := time.Now()
	res, err := sys.Solve()
	elapsed := time.Since(start)

	ev := metrics.SolveEvent{
		RunID:    runID,
		Scenario: r.cfg.Name,
		Approach: approach,
		Steps:    sys.Horizon.Steps,
		Duration: elapsed,
		Time:     time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
		r.record(ev)
		return nil, fmt.Errorf("scenario %s: approach %s: %w", r.cfg.Name, approach, err)
	}

	table := results.Build(sys, res)
	summary := results.Summarize(sys, res, table)

	ev.Objective = res.Objective
	ev.Vars = res.Vars
	ev.EnergyUp = summary.EnergyUp
	ev.EnergyDoShift = summary.EnergyDoShift
	ev.EnergyDoShed = summary.EnergyDoShed
	r.record(ev)

	r.log.Infof("solved scenario=%s approach=%s objective=%.3f in %s",
		r.cfg.Name, approach, res.Objective, elapsed)
	r.log.Debugw("solve detail", map[string]any{
		"run":             runID,
		"energy_up":       summary.EnergyUp,
		"energy_do_shift": summary.EnergyDoShift,
		"energy_do_shed":  summary.EnergyDoShed,
		"peak_before":     summary.PeakBefore,
		"peak_after":      summary.PeakAfter,
	})

	return &Outcome{
		RunID:    runID,
		Approach: approach,
		System:   sys,
		Result:   res,
		Table:    table,
		Summary:  summary,
		Duration: elapsed,
	}, nil
}

// Compare solves the scenario with every requested variant. An empty list
// runs all supported variants.
func (r *Runner) Compare(ctx context.Context, approaches []string) ([]*Outcome, error) {
	if len(approaches) == 0 {
		approaches = Approaches()
	}
	outcomes := make([]*Outcome, 0, len(approaches))
	for _, a := range approaches {
		out, err := r.Run(ctx, a)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (r *Runner) record(ev metrics.SolveEvent) {
	r.bus.Publish(ev)
	if err := r.sink.RecordSolve(ev); err != nil {
		r.log.Errorf("record solve: %v", err)
	}
}
