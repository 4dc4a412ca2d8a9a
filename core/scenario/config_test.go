package scenario

import "testing"

func testConfig() Config {
	return Config{
		Name:    "toy",
		Horizon: HorizonConfig{Steps: 6, IncrementHours: 1},
		Demand:  SeriesSpec{Values: []float64{80, 80, 130, 130, 80, 80}},
		Generators: []GeneratorSpec{
			{Name: "coal1", Capacity: SeriesSpec{Value: fptr(100)}, Cost: 10},
		},
		Renewables: []RenewableSpec{
			{Name: "wind", Profile: SeriesSpec{Value: fptr(20)}},
		},
		ShortageCost: 1000,
		DSM: DSMConfig{
			Approach:      "diw-delay",
			CapacityUp:    SeriesSpec{Value: fptr(40)},
			CapacityDown:  SeriesSpec{Value: fptr(40)},
			CostUp:        1,
			CostDownShift: 1,
			CostDownShed:  50,
			ShiftEligible: true,
			ShedEligible:  true,

			ShiftInterval: 6,
			DelayTime:     2,
			ShiftTime:     2,
			ShiftTimeUp:   2,
			ShiftTimeDown: 2,
			ShedTime:      2,
			RecoveryShed:  4,

			YearLimitSheds:       2,
			CumulativeShiftTime:  10,
			CumulativeShedTime:   1,
			AnnualFrequencyShift: 10,
			DailyFrequencyShift:  1,
			AnnualFrequencyShed:  2,
		},
	}
}

func TestBuildSystemAllApproaches(t *testing.T) {
	cfg := testConfig()
	for _, approach := range Approaches() {
		sys, err := cfg.BuildSystem(approach, ".")
		if err != nil {
			t.Fatalf("%s: build: %v", approach, err)
		}
		if sys.DSM.Approach() != approach {
			t.Fatalf("expected approach %s, got %s", approach, sys.DSM.Approach())
		}
		if err := sys.Validate(); err != nil {
			t.Fatalf("%s: validate: %v", approach, err)
		}
	}
}

func TestBuildSystemFromCSVSeries(t *testing.T) {
	cfg := testConfig()
	cfg.Demand = SeriesSpec{CSV: "testdata/profiles.csv", Column: "demand_el"}
	cfg.Renewables[0].Profile = SeriesSpec{CSV: "testdata/profiles.csv", Column: "wind"}

	sys, err := cfg.BuildSystem("dlr", ".")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := sys.DSM.BaseDemand(2); got != 130 {
		t.Fatalf("demand from csv = %g, want 130", got)
	}
	if got := sys.Renewables[0].Profile.At(5); got != 25 {
		t.Fatalf("wind from csv = %g, want 25", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	cfg.Name = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without name")
	}

	cfg = testConfig()
	cfg.Horizon.Steps = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without steps")
	}

	cfg = testConfig()
	cfg.DSM.Approach = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without approach")
	}

	if _, err := testConfig().BuildSystem("nope", "."); err == nil {
		t.Fatal("expected error for unknown approach")
	}
}
