package model

import "fmt"

// Horizon describes the discrete optimization timeframe.
type Horizon struct {
	// Steps is the number of timesteps.
	Steps int
	// Increment is the duration of one step in hours. It converts
	// capacity (MW) figures into energy (MWh) in limit constraints.
	Increment float64
}

// Validate checks the horizon parameters.
func (h Horizon) Validate() error {
	if h.Steps <= 0 {
		return fmt.Errorf("horizon: steps must be positive, got %d", h.Steps)
	}
	if h.Increment <= 0 {
		return fmt.Errorf("horizon: increment must be positive, got %g", h.Increment)
	}
	return nil
}

// Last returns the index of the final timestep.
func (h Horizon) Last() int { return h.Steps - 1 }
