package scenario

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/flexnode/dsm/core/model"
)

// SeriesSpec configures a time-indexed parameter. Exactly one of Value,
// Values or CSV must be set; Scale multiplies the resolved values and
// defaults to 1.
type SeriesSpec struct {
	Value  *float64  `json:"value"`
	Values []float64 `json:"values"`
	CSV    string    `json:"csv"`
	Column string    `json:"column"`
	Scale  float64   `json:"scale"`
}

// Resolve turns the spec into a Sequence of at least steps values.
// Relative CSV paths are resolved against baseDir.
func (s SeriesSpec) Resolve(baseDir string, steps int) (model.Sequence, error) {
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	set := 0
	if s.Value != nil {
		set++
	}
	if len(s.Values) > 0 {
		set++
	}
	if s.CSV != "" {
		set++
	}
	if set != 1 {
		return model.Sequence{}, fmt.Errorf("series: exactly one of value, values and csv must be set")
	}

	if s.Value != nil {
		return model.Scalar(*s.Value * scale), nil
	}

	vals := s.Values
	if s.CSV != "" {
		path := s.CSV
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		vals, err = LoadCSVColumn(path, s.Column)
		if err != nil {
			return model.Sequence{}, err
		}
	}
	if len(vals) < steps {
		return model.Sequence{}, fmt.Errorf("series: %d values for %d steps", len(vals), steps)
	}
	scaled := make([]float64, len(vals))
	for i, v := range vals {
		scaled[i] = v * scale
	}
	return model.Series(scaled), nil
}

// LoadCSVColumn reads one named column from a CSV file with a header row.
// An empty column name selects the first column.
func LoadCSVColumn(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("read %s: no data rows", path)
	}

	col := 0
	if column != "" {
		col = -1
		for i, name := range records[0] {
			if name == column {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, fmt.Errorf("read %s: no column %q", path, column)
		}
	}

	vals := make([]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if col >= len(rec) {
			return nil, fmt.Errorf("read %s: row %d too short", path, i+2)
		}
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return nil, fmt.Errorf("read %s: row %d: %w", path, i+2, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
