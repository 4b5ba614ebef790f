package risk

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

func TestPlanOnePercentRule(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	plan, err := calc.Plan("NQ", models.DirectionLong, 19500, 19450, 10000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.PositionSize.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("position size = %s, want 2", plan.PositionSize)
	}
	if !plan.RiskAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("risk amount = %s, want 100", plan.RiskAmount)
	}
	if !plan.TakeProfit.Equal(decimal.NewFromInt(19600)) {
		t.Fatalf("take profit = %s, want 19600", plan.TakeProfit)
	}
	if !plan.BreakEvenTrigger.Equal(decimal.NewFromInt(19525)) {
		t.Fatalf("break-even trigger = %s, want 19525", plan.BreakEvenTrigger)
	}
	if !plan.IsValid {
		t.Fatalf("plan should be valid: %v", plan.Warnings)
	}

	// risk amount == size * |entry-stop| == equity * fraction, exactly.
	recomputed := plan.PositionSize.Mul(plan.Entry.Sub(plan.StopLoss).Abs())
	if !recomputed.Equal(plan.RiskAmount) {
		t.Fatalf("risk identity broken: %s vs %s", recomputed, plan.RiskAmount)
	}
}

func TestPlanShortDirection(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	plan, err := calc.Plan("NQ", models.DirectionShort, 19500, 19550, 10000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.TakeProfit.Equal(decimal.NewFromInt(19400)) {
		t.Fatalf("short take profit = %s, want 19400", plan.TakeProfit)
	}
	if !plan.BreakEvenTrigger.Equal(decimal.NewFromInt(19475)) {
		t.Fatalf("short break-even trigger = %s, want 19475", plan.BreakEvenTrigger)
	}
}

func TestPlanRatioFloorIsPolicyNotError(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	plan, err := calc.Plan("NQ", models.DirectionLong, 19500, 19450, 10000, 1.2)
	if err != nil {
		t.Fatalf("low ratio must not error: %v", err)
	}
	if plan.IsValid {
		t.Fatalf("ratio 1.2 below floor 1.5 must flag invalid")
	}
	if len(plan.Warnings) == 0 {
		t.Fatalf("expected a warning")
	}
}

func TestPlanLeverageCeiling(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{LeverageCeiling: 5})
	// Tight stop forces a big position: size = 100/0.5 = 200, leverage = 200*100/10000 = 2. OK.
	plan, err := calc.Plan("DAX", models.DirectionLong, 100, 99.5, 10000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.IsValid {
		t.Fatalf("leverage 2 within ceiling 5 should be valid")
	}
	// size = 100/0.05 = 2000, leverage = 2000*100/10000 = 20 > 5.
	plan, err = calc.Plan("DAX", models.DirectionLong, 100, 99.95, 10000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.IsValid {
		t.Fatalf("leverage 20 above ceiling 5 must flag invalid")
	}
}

func TestPlanInputErrors(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	cases := []struct {
		name             string
		dir              models.TradeDirection
		entry, stop, eq  float64
	}{
		{"zero entry", models.DirectionLong, 0, 19450, 10000},
		{"zero equity", models.DirectionLong, 19500, 19450, 0},
		{"entry equals stop", models.DirectionLong, 19500, 19500, 10000},
		{"long stop above entry", models.DirectionLong, 19500, 19550, 10000},
		{"short stop below entry", models.DirectionShort, 19500, 19450, 10000},
	}
	for _, tc := range cases {
		if _, err := calc.Plan("NQ", tc.dir, tc.entry, tc.stop, tc.eq, 2.0); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestRevalidateRoundTrip(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	for _, ratio := range []float64{1.0, 1.2, 1.5, 2.0, 3.0} {
		plan, err := calc.Plan("NQ", models.DirectionLong, 19500, 19450, 10000, ratio)
		if err != nil {
			t.Fatalf("ratio %v: %v", ratio, err)
		}
		if got := calc.Revalidate(plan); got != plan.IsValid {
			t.Fatalf("ratio %v: revalidate=%v, plan=%v", ratio, got, plan.IsValid)
		}
	}
}

func TestBreakEvenStop(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	plan, err := calc.Plan("NQ", models.DirectionLong, 19500, 19450, 10000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, triggered := calc.BreakEvenStop(plan, 19510); triggered {
		t.Fatalf("below 0.5R must not trigger")
	}
	stop, triggered := calc.BreakEvenStop(plan, 19530)
	if !triggered {
		t.Fatalf("0.5R reached, expected trigger")
	}
	if !stop.Equal(plan.Entry) {
		t.Fatalf("recommended stop = %s, want entry %s", stop, plan.Entry)
	}
}

func TestKnockOut(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{KOSafetyBufferPct: 1.0})
	plan, err := calc.Plan("DAX", models.DirectionLong, 18000, 17900, 10000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ko, err := calc.KnockOut(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// barrier = 17900 - 1% = 17721, below the stop.
	if !ko.Barrier.Equal(decimal.NewFromInt(17721)) {
		t.Fatalf("barrier = %s, want 17721", ko.Barrier)
	}
	if !ko.Barrier.LessThan(plan.StopLoss) {
		t.Fatalf("long barrier must sit below the stop")
	}
	if ko.ImpliedLeverage.LessThanOrEqual(decimal.Zero) {
		t.Fatalf("implied leverage must be positive, got %s", ko.ImpliedLeverage)
	}
}

func TestNoDriftOnRecomputation(t *testing.T) {
	calc := NewPositionCalculator(PositionConfig{})
	first, err := calc.Plan("NQ", models.DirectionLong, 19503.25, 19481.75, 25000, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan := first
	for i := 0; i < 100; i++ {
		again, err := calc.Plan("NQ", models.DirectionLong, 19503.25, 19481.75, 25000, 2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !again.RiskAmount.Equal(plan.RiskAmount) || !again.PositionSize.Equal(plan.PositionSize) {
			t.Fatalf("drift after %d recomputations", i)
		}
		plan = again
	}
}
