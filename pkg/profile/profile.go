// Package profile generates synthetic hourly demand and feed-in series for
// scenario experiments.
package profile

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"
)

// Config parameterizes the generated series. All power figures are in MW.
type Config struct {
	Seed int64 `json:"seed"`
	Days int   `json:"days"`

	BaseDemand  float64 `json:"base_demand"`
	DemandSwing float64 `json:"demand_swing"`

	WindCapacity float64 `json:"wind_capacity"`
	PVCapacity   float64 `json:"pv_capacity"`

	// JitterPct randomizes every value by up to this fraction.
	JitterPct float64 `json:"jitter_pct"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Days == 0 {
		c.Days = 7
	}
	if c.BaseDemand == 0 {
		c.BaseDemand = 100
	}
	if c.DemandSwing == 0 {
		c.DemandSwing = 30
	}
	if c.WindCapacity == 0 {
		c.WindCapacity = 60
	}
	if c.PVCapacity == 0 {
		c.PVCapacity = 40
	}
	if c.JitterPct == 0 {
		c.JitterPct = 0.05
	}
}

// Profiles holds aligned hourly series.
type Profiles struct {
	Demand []float64
	Wind   []float64
	PV     []float64
}

// Generate produces the configured number of days of hourly values. The
// same seed yields the same series.
func Generate(cfg Config) Profiles {
	cfg.SetDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	steps := cfg.Days * 24

	p := Profiles{
		Demand: make([]float64, steps),
		Wind:   make([]float64, steps),
		PV:     make([]float64, steps),
	}

	wind := cfg.WindCapacity * rng.Float64()
	for t := 0; t < steps; t++ {
		hour := float64(t % 24)

		// Daily demand curve peaking in the evening.
		d := cfg.BaseDemand + cfg.DemandSwing*math.Sin(2*math.Pi*(hour-12)/24)
		p.Demand[t] = jitter(rng, d, cfg.JitterPct)

		// Wind as a clipped random walk.
		wind += (rng.Float64()*2 - 1) * cfg.WindCapacity * 0.15
		if wind < 0 {
			wind = 0
		}
		if wind > cfg.WindCapacity {
			wind = cfg.WindCapacity
		}
		p.Wind[t] = wind

		// PV as a midday bell, zero at night.
		var pv float64
		if hour >= 6 && hour <= 18 {
			pv = cfg.PVCapacity * math.Sin(math.Pi*(hour-6)/12)
			pv = jitter(rng, pv, cfg.JitterPct)
		}
		p.PV[t] = pv
	}
	return p
}

// WriteCSV writes the series to w with one row per hour.
func (p Profiles) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"demand_el", "wind", "pv"}); err != nil {
		return err
	}
	for t := range p.Demand {
		rec := []string{
			strconv.FormatFloat(p.Demand[t], 'f', 3, 64),
			strconv.FormatFloat(p.Wind[t], 'f', 3, 64),
			strconv.FormatFloat(p.PV[t], 'f', 3, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func jitter(rng *rand.Rand, v, pct float64) float64 {
	if pct <= 0 {
		return v
	}
	f := v * (1 + (rng.Float64()*2-1)*pct)
	if f < 0 {
		return 0
	}
	return f
}
