package model

import "testing"

func TestScalarSequence(t *testing.T) {
	s := Scalar(5)
	if s.IsSeries() {
		t.Fatal("scalar reported as series")
	}
	for _, i := range []int{0, 3, 100} {
		if s.At(i) != 5 {
			t.Fatalf("At(%d) = %g, want 5", i, s.At(i))
		}
	}
	if s.Mean(4) != 5 || s.Max(4) != 5 || s.Sum(4) != 20 {
		t.Fatalf("scalar aggregates wrong: mean=%g max=%g sum=%g", s.Mean(4), s.Max(4), s.Sum(4))
	}
}

func TestSeriesSequence(t *testing.T) {
	s := Series([]float64{1, 4, 2})
	if !s.IsSeries() {
		t.Fatal("series not reported as series")
	}
	if s.At(1) != 4 {
		t.Fatalf("At(1) = %g, want 4", s.At(1))
	}
	if s.Mean(3) != 7.0/3 {
		t.Fatalf("Mean(3) = %g", s.Mean(3))
	}
	if s.Max(3) != 4 {
		t.Fatalf("Max(3) = %g", s.Max(3))
	}
	if s.Sum(2) != 5 {
		t.Fatalf("Sum(2) = %g", s.Sum(2))
	}
}

func TestSeriesOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Series([]float64{1}).At(1)
}

func TestHorizonValidate(t *testing.T) {
	if err := (Horizon{Steps: 24, Increment: 1}).Validate(); err != nil {
		t.Fatalf("valid horizon rejected: %v", err)
	}
	if err := (Horizon{Steps: 0, Increment: 1}).Validate(); err == nil {
		t.Fatal("expected error for zero steps")
	}
	if err := (Horizon{Steps: 24, Increment: 0}).Validate(); err == nil {
		t.Fatal("expected error for zero increment")
	}
	if (Horizon{Steps: 24, Increment: 1}).Last() != 23 {
		t.Fatal("Last wrong")
	}
}
