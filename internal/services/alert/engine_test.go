package alert

import (
	"testing"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

var ts = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func barAt(low, high, close float64) models.Bar {
	return models.Bar{Timestamp: ts, Symbol: "DAX", Open: close, High: high, Low: low, Close: close, Volume: 100}
}

func TestRangeBreakBullish(t *testing.T) {
	eng := NewEngine(Config{})
	setup := models.RangeSetup{Symbol: "DAX", High: 18550, Low: 18520}

	a, ok := eng.CheckRangeBreak(setup, barAt(18540, 18565, 18560))
	if !ok {
		t.Fatalf("close above range high must fire")
	}
	if a.Kind != models.AlertRangeBreak || a.Direction != "bullish" {
		t.Fatalf("got %s/%s", a.Kind, a.Direction)
	}
	if a.Price != 18560 || a.Levels[0] != 18550 {
		t.Fatalf("alert payload wrong: %+v", a)
	}
}

func TestRangeBreakBearishAndInside(t *testing.T) {
	eng := NewEngine(Config{})
	setup := models.RangeSetup{Symbol: "DAX", High: 18550, Low: 18520}

	a, ok := eng.CheckRangeBreak(setup, barAt(18500, 18530, 18510))
	if !ok || a.Direction != "bearish" {
		t.Fatalf("close below range low must fire bearish")
	}
	if _, ok := eng.CheckRangeBreak(setup, barAt(18525, 18545, 18535)); ok {
		t.Fatalf("close inside range must not fire")
	}
	// Wick beyond the high without a closing break stays silent.
	if _, ok := eng.CheckRangeBreak(setup, barAt(18525, 18560, 18540)); ok {
		t.Fatalf("intrabar poke without close must not fire")
	}
}

func TestRetestOnlyAfterBreak(t *testing.T) {
	eng := NewEngine(Config{})
	fresh := models.RangeSetup{Symbol: "DAX", High: 18550, Low: 18520}
	if _, ok := eng.CheckRetest(fresh, 18550, barAt(18540, 18555, 18550)); ok {
		t.Fatalf("retest before any break must not fire")
	}

	broken := fresh
	broken.BrokenUp = true
	// 18550 * 0.1% tolerance = 18.55 points.
	a, ok := eng.CheckRetest(broken, 18560, barAt(18555, 18565, 18560))
	if !ok {
		t.Fatalf("price within tolerance of broken edge must fire")
	}
	if a.Kind != models.AlertRetestTouch || a.Levels[0] != 18550 {
		t.Fatalf("alert payload wrong: %+v", a)
	}
	if _, ok := eng.CheckRetest(broken, 18600, barAt(18595, 18605, 18600)); ok {
		t.Fatalf("price beyond tolerance must not fire")
	}
}

func TestPivotTouchInterval(t *testing.T) {
	eng := NewEngine(Config{})
	ladder := models.PivotLadder{Pivot: 18500, R1: 18600, S1: 18400}

	// Bar spans the pivot band only.
	alerts := eng.CheckPivotTouch(ladder, barAt(18495, 18510, 18505))
	if len(alerts) != 1 || alerts[0].Kind != models.AlertPivotTouch {
		t.Fatalf("expected single pivot touch, got %+v", alerts)
	}

	// Wide bar touches pivot and R1.
	alerts = eng.CheckPivotTouch(ladder, barAt(18490, 18605, 18595))
	if len(alerts) != 2 {
		t.Fatalf("expected pivot and r1 touch, got %d", len(alerts))
	}

	// Band edge: R1 18600 with 0.05% tolerance reaches down to 18590.7.
	alerts = eng.CheckPivotTouch(ladder, barAt(18560, 18592, 18585))
	if len(alerts) != 1 || alerts[0].Kind != models.AlertR1Touch {
		t.Fatalf("bar overlapping r1 band must fire r1_touch, got %+v", alerts)
	}

	if alerts := eng.CheckPivotTouch(ladder, barAt(18540, 18560, 18550)); len(alerts) != 0 {
		t.Fatalf("bar away from all bands must stay silent, got %+v", alerts)
	}
}

func TestAsiaSweepConfirmation(t *testing.T) {
	eng := NewEngine(Config{SweepConfirmCloses: 3})
	setup := models.SweepSetup{Symbol: "DAX", AsiaLow: 18450, Breached: true}

	a, ok := eng.CheckAsiaSweep(setup, []float64{18440, 18455, 18460, 18470}, barAt(18460, 18475, 18470))
	if !ok {
		t.Fatalf("breach plus three closes back above must confirm")
	}
	if a.Kind != models.AlertAsiaSweep || a.Levels[0] != 18450 {
		t.Fatalf("alert payload wrong: %+v", a)
	}

	// A trailing close back below the low suppresses the alert.
	if _, ok := eng.CheckAsiaSweep(setup, []float64{18455, 18445, 18460}, barAt(18455, 18465, 18460)); ok {
		t.Fatalf("close below the low inside the window must suppress")
	}

	// No intrabar breach recorded: suppressed no matter the closes.
	unbreached := setup
	unbreached.Breached = false
	if _, ok := eng.CheckAsiaSweep(unbreached, []float64{18455, 18460, 18470}, barAt(18460, 18475, 18470)); ok {
		t.Fatalf("missing breach must suppress")
	}

	// Too few confirming closes.
	if _, ok := eng.CheckAsiaSweep(setup, []float64{18460, 18470}, barAt(18460, 18475, 18470)); ok {
		t.Fatalf("short close window must suppress")
	}
}

func TestMultipleRulesSameBar(t *testing.T) {
	eng := NewEngine(Config{})
	setup := models.RangeSetup{Symbol: "DAX", High: 18550, Low: 18520}
	ladder := models.PivotLadder{Pivot: 18560, R1: 18660, S1: 18460}

	bar := barAt(18545, 18575, 18570)
	if _, ok := eng.CheckRangeBreak(setup, bar); !ok {
		t.Fatalf("range break should fire")
	}
	if alerts := eng.CheckPivotTouch(ladder, bar); len(alerts) != 1 {
		t.Fatalf("pivot touch should fire on the same bar, got %+v", alerts)
	}
}
