package dsm_test

import (
	"math"
	"testing"

	"github.com/flexnode/dsm/core/dsm"
	"github.com/flexnode/dsm/core/model"
)

func toyDLR() *dsm.DLR {
	return &dsm.DLR{
		Unit:               toyUnit(),
		DelayTime:          2,
		ShiftTime:          2,
		FixUncompensatable: true,
	}
}

func TestDLRShiftsAroundPeak(t *testing.T) {
	res, err := toySystem(toyDLR()).Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if s := sum(res.Flows["shortage"]); s > tol {
		t.Fatalf("expected no shortage, got %g", s)
	}
	up, do := res.DSM["dsm_up"], res.DSM["dsm_do_shift"]
	// With mandatory balancing and tail shifts fixed to zero, every MWh
	// shifted away comes back within the horizon.
	if math.Abs(sum(up)-sum(do)) > tol {
		t.Fatalf("unbalanced shifts: up=%g do=%g", sum(up), sum(do))
	}
	for i := range toyDemand {
		if do[i] > 40+tol || up[i] > 40+tol {
			t.Fatalf("availability violated at step %d: up=%g do=%g", i, up[i], do[i])
		}
	}
	for _, i := range []int{2, 3} {
		if do[i]-up[i] < 10-tol {
			t.Fatalf("expected net reduction >= 10 at step %d, got %g", i, do[i]-up[i])
		}
	}
}

func TestDLRLevelsTrackShifts(t *testing.T) {
	res, err := toySystem(toyDLR()).Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	doOrig := res.DSM["dsm_do_orig"]
	balDo := res.DSM["balance_dsm_do"]
	level := res.DSM["dsm_level_do"]
	// do_level[t] = do_level[t-1] + do[t] - balance_do[t] with eff 1.
	prev := 0.0
	for i := range toyDemand {
		want := prev + doOrig[i] - balDo[i]
		if i == 0 {
			want = doOrig[0]
		}
		if math.Abs(level[i]-want) > tol {
			t.Fatalf("level mismatch at step %d: got %g want %g", i, level[i], want)
		}
		if level[i] > 40*2+tol {
			t.Fatalf("level cap violated at step %d: %g", i, level[i])
		}
		prev = level[i]
	}
}

func TestDLRYearLimitCapsShifting(t *testing.T) {
	form := toyDLR()
	form.ActivateYearLimit = true
	// Mean capacity 40, shift time 2: a 0.2 activation budget caps the
	// yearly up- and downshifts at 16 MW each.
	form.YearLimitShifts = 0.2
	res, err := toySystem(form).Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if s := sum(res.DSM["dsm_do_orig"]); s > 16+tol {
		t.Fatalf("downshift year limit violated: %g", s)
	}
	if s := sum(res.DSM["dsm_up_orig"]); s > 16+tol {
		t.Fatalf("upshift year limit violated: %g", s)
	}
}

func TestDLRValidate(t *testing.T) {
	h := model.Horizon{Steps: 6, Increment: 1}
	if err := (&dsm.DLR{Unit: toyUnit()}).Validate(h); err == nil {
		t.Fatal("expected error without delay time")
	}
	if err := (&dsm.DLR{Unit: toyUnit(), DelayTime: 2}).Validate(h); err == nil {
		t.Fatal("expected error without shift time")
	}
	shed := toyUnit()
	shed.ShedEligible = true
	if err := (&dsm.DLR{Unit: shed, DelayTime: 2, ShiftTime: 2}).Validate(h); err == nil {
		t.Fatal("expected error for shed-eligible unit without year limit")
	}
	day := toyDLR()
	day.ActivateDayLimit = true
	if err := day.Validate(h); err == nil {
		t.Fatal("expected error for day limit without span")
	}
}
