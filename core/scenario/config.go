// Package scenario loads dispatch scenarios from configuration, builds the
// configured demand-response variant and runs the solves.
package scenario

import (
	"fmt"

	"github.com/flexnode/dsm/core/dsm"
	"github.com/flexnode/dsm/core/model"
	"github.com/flexnode/dsm/core/system"
)

// Config is one dispatch scenario: the horizon, the supply side and the
// demand-response unit with its variant parameters.
type Config struct {
	Name    string        `json:"name"`
	Horizon HorizonConfig `json:"horizon"`

	Demand     SeriesSpec      `json:"demand"`
	Generators []GeneratorSpec `json:"generators"`
	Renewables []RenewableSpec `json:"renewables"`

	ShortageCost float64 `json:"shortage_cost"`
	ExcessCost   float64 `json:"excess_cost"`

	DSM DSMConfig `json:"dsm"`
}

// HorizonConfig configures the optimization timeframe.
type HorizonConfig struct {
	Steps          int     `json:"steps"`
	IncrementHours float64 `json:"increment_hours"`
}

// GeneratorSpec configures a dispatchable plant.
type GeneratorSpec struct {
	Name     string     `json:"name"`
	Capacity SeriesSpec `json:"capacity"`
	Cost     float64    `json:"cost"`
}

// RenewableSpec configures a fixed feed-in source.
type RenewableSpec struct {
	Name    string     `json:"name"`
	Profile SeriesSpec `json:"profile"`
}

// DSMConfig configures the demand-response unit. Approach selects the
// variant; parameters not used by the selected variant are ignored.
type DSMConfig struct {
	Approach string `json:"approach"`
	Name     string `json:"name"`

	CapacityUp   SeriesSpec `json:"capacity_up"`
	CapacityDown SeriesSpec `json:"capacity_down"`

	CostUp        float64 `json:"cost_up"`
	CostDownShift float64 `json:"cost_down_shift"`
	CostDownShed  float64 `json:"cost_down_shed"`
	Efficiency    float64 `json:"efficiency"`
	ShiftEligible bool    `json:"shift_eligible"`
	ShedEligible  bool    `json:"shed_eligible"`

	ShiftInterval int `json:"shift_interval"`
	DelayTime     int `json:"delay_time"`
	ShiftTime     int `json:"shift_time"`
	ShiftTimeUp   int `json:"shift_time_up"`
	ShiftTimeDown int `json:"shift_time_down"`
	PostponeTime  int `json:"postpone_time"`
	ShedTime      int `json:"shed_time"`
	RecoveryShift int `json:"recovery_time_shift"`
	RecoveryShed  int `json:"recovery_time_shed"`

	YearLimitShifts    float64 `json:"n_year_limit_shift"`
	YearLimitSheds     float64 `json:"n_year_limit_shed"`
	DayLimitSpan       int     `json:"t_day_limit"`
	ActivateYearLimit  bool    `json:"activate_year_limit"`
	ActivateDayLimit   bool    `json:"activate_day_limit"`
	FixUncompensatable bool    `json:"fixes"`

	CumulativeShiftTime  float64 `json:"cumulative_shift_time"`
	CumulativeShedTime   float64 `json:"cumulative_shed_time"`
	AnnualFrequencyShift float64 `json:"annual_frequency_shift"`
	DailyFrequencyShift  float64 `json:"daily_frequency_shift"`
	AnnualFrequencyShed  float64 `json:"annual_frequency_shed"`
	AddLogical           bool    `json:"add_logical"`
}

// Approaches lists the supported variant identifiers in comparison order.
func Approaches() []string {
	return []string{"diw-interval", "diw-delay", "dlr", "ier", "tud"}
}

func (c Config) horizon() model.Horizon {
	return model.Horizon{Steps: c.Horizon.Steps, Increment: c.Horizon.IncrementHours}
}

// Validate checks the scenario without resolving file-backed series.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if err := c.horizon().Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", c.Name, err)
	}
	if c.DSM.Approach == "" {
		return fmt.Errorf("scenario %s: dsm approach is required", c.Name)
	}
	return nil
}

// buildFormulation resolves the unit series and constructs the variant
// selected by approach. Relative CSV paths are resolved against baseDir.
func (c Config) buildFormulation(approach, baseDir string) (dsm.Formulation, error) {
	steps := c.Horizon.Steps
	demand, err := c.Demand.Resolve(baseDir, steps)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: demand: %w", c.Name, err)
	}
	capUp, err := c.DSM.CapacityUp.Resolve(baseDir, steps)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: capacity_up: %w", c.Name, err)
	}
	capDown, err := c.DSM.CapacityDown.Resolve(baseDir, steps)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: capacity_down: %w", c.Name, err)
	}

	name := c.DSM.Name
	if name == "" {
		name = "demand_dsm"
	}
	unit := dsm.Unit{
		Name:          name,
		Demand:        demand,
		CapacityUp:    capUp,
		CapacityDown:  capDown,
		CostUp:        c.DSM.CostUp,
		CostDownShift: c.DSM.CostDownShift,
		CostDownShed:  c.DSM.CostDownShed,
		Efficiency:    c.DSM.Efficiency,
		ShiftEligible: c.DSM.ShiftEligible,
		ShedEligible:  c.DSM.ShedEligible,
	}

	switch approach {
	case "diw-interval":
		return &dsm.DIW{Unit: unit, Method: dsm.DIWInterval, ShiftInterval: c.DSM.ShiftInterval}, nil
	case "diw-delay":
		return &dsm.DIW{
			Unit:          unit,
			Method:        dsm.DIWDelay,
			DelayTime:     c.DSM.DelayTime,
			ShedTime:      c.DSM.ShedTime,
			RecoveryShift: c.DSM.RecoveryShift,
			RecoveryShed:  c.DSM.RecoveryShed,
		}, nil
	case "dlr":
		return &dsm.DLR{
			Unit:               unit,
			DelayTime:          c.DSM.DelayTime,
			ShiftTime:          c.DSM.ShiftTime,
			ShedTime:           c.DSM.ShedTime,
			YearLimitShifts:    c.DSM.YearLimitShifts,
			YearLimitSheds:     c.DSM.YearLimitSheds,
			DayLimitSpan:       c.DSM.DayLimitSpan,
			ActivateYearLimit:  c.DSM.ActivateYearLimit,
			ActivateDayLimit:   c.DSM.ActivateDayLimit,
			AddLogical:         c.DSM.AddLogical,
			FixUncompensatable: c.DSM.FixUncompensatable,
		}, nil
	case "ier":
		return &dsm.IER{
			Unit:                unit,
			DelayTime:           c.DSM.DelayTime,
			ShiftTimeUp:         c.DSM.ShiftTimeUp,
			ShiftTimeDown:       c.DSM.ShiftTimeDown,
			ShedTime:            c.DSM.ShedTime,
			CumulativeShiftTime: c.DSM.CumulativeShiftTime,
			CumulativeShedTime:  c.DSM.CumulativeShedTime,
			AddLogical:          c.DSM.AddLogical,
		}, nil
	case "tud":
		return &dsm.TUD{
			Unit:                 unit,
			ShiftTimeDown:        c.DSM.ShiftTimeDown,
			PostponeTime:         c.DSM.PostponeTime,
			ShedTime:             c.DSM.ShedTime,
			AnnualFrequencyShift: c.DSM.AnnualFrequencyShift,
			DailyFrequencyShift:  c.DSM.DailyFrequencyShift,
			AnnualFrequencyShed:  c.DSM.AnnualFrequencyShed,
			AddLogical:           c.DSM.AddLogical,
		}, nil
	}
	return nil, fmt.Errorf("scenario %s: unknown dsm approach %q", c.Name, approach)
}

// BuildSystem assembles the solvable system for the given variant.
func (c Config) BuildSystem(approach, baseDir string) (*system.System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	form, err := c.buildFormulation(approach, baseDir)
	if err != nil {
		return nil, err
	}

	steps := c.Horizon.Steps
	sys := &system.System{
		Name:         c.Name,
		Horizon:      c.horizon(),
		ShortageCost: c.ShortageCost,
		ExcessCost:   c.ExcessCost,
		DSM:          form,
	}
	for _, g := range c.Generators {
		capSeq, err := g.Capacity.Resolve(baseDir, steps)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: generator %s: %w", c.Name, g.Name, err)
		}
		sys.Generators = append(sys.Generators, system.Generator{Name: g.Name, Capacity: capSeq, Cost: g.Cost})
	}
	for _, r := range c.Renewables {
		prof, err := r.Profile.Resolve(baseDir, steps)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: renewable %s: %w", c.Name, r.Name, err)
		}
		sys.Renewables = append(sys.Renewables, system.Renewable{Name: r.Name, Profile: prof})
	}
	return sys, nil
}
