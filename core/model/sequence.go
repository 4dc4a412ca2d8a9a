// Package model holds the shared domain types of the toolkit: time-indexed
// parameter sequences and the optimization horizon.
package model

// Sequence is a time-indexed parameter that is either a scalar broadcast
// over the whole horizon or an explicit per-step series.
type Sequence struct {
	scalar float64
	series []float64
}

// Scalar returns a sequence holding the same value at every step.
func Scalar(v float64) Sequence { return Sequence{scalar: v} }

// Series returns a sequence backed by the given per-step values.
func Series(vs []float64) Sequence { return Sequence{series: vs} }

// IsSeries reports whether the sequence carries explicit per-step values.
func (s Sequence) IsSeries() bool { return s.series != nil }

// At returns the value at step t. Indexing a series out of range panics,
// as it means the scenario series is shorter than the horizon.
func (s Sequence) At(t int) float64 {
	if s.series == nil {
		return s.scalar
	}
	return s.series[t]
}

// Mean returns the average value over the first n steps.
func (s Sequence) Mean(n int) float64 {
	if n <= 0 {
		return 0
	}
	sum := 0.0
	for t := 0; t < n; t++ {
		sum += s.At(t)
	}
	return sum / float64(n)
}

// Max returns the largest value over the first n steps.
func (s Sequence) Max(n int) float64 {
	max := 0.0
	for t := 0; t < n; t++ {
		if v := s.At(t); v > max || t == 0 {
			max = v
		}
	}
	return max
}

// Sum returns the total over the first n steps.
func (s Sequence) Sum(n int) float64 {
	sum := 0.0
	for t := 0; t < n; t++ {
		sum += s.At(t)
	}
	return sum
}
