package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/flexnode/dsm/core/results"
)

// WriteTableCSV writes the per-timestep result table to w, one row per
// step with a leading timestep column.
func WriteTableCSV(w io.Writer, t *results.Table) error {
	cw := csv.NewWriter(w)
	header := append([]string{"timestep"}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < t.Steps; i++ {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(i))
		for _, v := range t.Row(i) {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummariesJSON writes the run summaries to w in JSON format.
func WriteSummariesJSON(w io.Writer, sums []results.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sums)
}

// WriteSummariesCSV writes the run summaries to w in CSV format.
func WriteSummariesCSV(w io.Writer, sums []results.Summary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"approach", "objective", "energy_up", "energy_do_shift",
		"energy_do_shed", "energy_excess", "energy_shortage",
		"peak_before", "peak_after",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range sums {
		rec := []string{
			s.Approach,
			fmtFloat(s.Objective),
			fmtFloat(s.EnergyUp),
			fmtFloat(s.EnergyDoShift),
			fmtFloat(s.EnergyDoShed),
			fmtFloat(s.EnergyExcess),
			fmtFloat(s.EnergyShort),
			fmtFloat(s.PeakBefore),
			fmtFloat(s.PeakAfter),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
