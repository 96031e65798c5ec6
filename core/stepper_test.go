package core

import (
	"math/rand/v2"
	"testing"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// scriptedSource replays a fixed per-week event schedule, so stepper tests
// control exactly which disruptions appear when.
type scriptedSource struct {
	byWeek map[int][]model.Disruption
}

func (s *scriptedSource) Generate(week int, _ *rand.Rand) []model.Disruption {
	return s.byWeek[week]
}

func newTestStepper(t *testing.T, weeks int, source disruptionSource) *WeekStepper {
	t.Helper()
	cfg := DefaultConfig()
	regions := []model.Region{testRegion("Solo", 0.8, 0.1, 0.9)}
	engine, err := NewMetricsEngine(regions, cfg.Metrics, cfg.Simulation.MaxRecoveryTimeWeeks)
	if err != nil {
		t.Fatalf("NewMetricsEngine: %v", err)
	}
	inventory := model.InventoryState{
		CurrentLevel:     cfg.InitialInventory,
		TargetLevel:      cfg.TargetInventory,
		BaseHoldingCost:  cfg.BaseHoldingCost,
		DemandVolatility: cfg.DemandVolatility,
	}
	rng := rand.New(rand.NewPCG(7, 7))
	return NewWeekStepper(weeks, source, engine, NewEconomy(regions), cfg.Strategies.Levels(), inventory, rng)
}

func TestStepper_RunsConfiguredHorizon(t *testing.T) {
	s := newTestStepper(t, 52, &scriptedSource{})

	steps := 0
	for !s.Completed() {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", steps+1, err)
		}
		steps++
		if steps > 52 {
			t.Fatalf("stepper did not complete after 52 weeks")
		}
	}

	if steps != 52 {
		t.Errorf("expected 52 steps, got %d", steps)
	}
	history := s.History()
	if len(history) != 52 {
		t.Fatalf("expected 52 week snapshots, got %d", len(history))
	}
	for i, wm := range history {
		if wm.Week != i+1 {
			t.Errorf("snapshot %d carries week %d", i, wm.Week)
		}
	}
	if s.Week() != 52 {
		t.Errorf("expected final week 52, got %d", s.Week())
	}
}

func TestStepper_SingleWeekHorizon(t *testing.T) {
	s := newTestStepper(t, 1, &scriptedSource{})
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !s.Completed() {
		t.Fatalf("expected completion after one week")
	}
	if len(s.History()) != 1 {
		t.Errorf("expected one snapshot, got %d", len(s.History()))
	}
}

func TestStepper_StepAfterCompletion(t *testing.T) {
	s := newTestStepper(t, 1, &scriptedSource{})
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := s.Step(); err == nil {
		t.Fatalf("expected an error stepping a completed run")
	}
	if len(s.History()) != 1 {
		t.Errorf("extra Step appended a snapshot: %d", len(s.History()))
	}
}

// TestStepper_DisruptionExpiry schedules a severity-1, one-week event and
// checks it is gone the following week.
func TestStepper_DisruptionExpiry(t *testing.T) {
	source := &scriptedSource{byWeek: map[int][]model.Disruption{
		1: {{Type: model.DisruptionNatural, Region: "Solo", Severity: 1.0, WeekOccurred: 1, DurationWeeks: 1}},
	}}
	s := newTestStepper(t, 3, source)

	if err := s.Step(); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if err := s.Step(); err != nil {
		t.Fatalf("Step 2: %v", err)
	}

	history := s.History()
	if history[0].ActiveDisruptions != 1 || history[0].ActiveSeverity != 1.0 {
		t.Errorf("week 1: expected the scheduled event active, got %d (severity %v)", history[0].ActiveDisruptions, history[0].ActiveSeverity)
	}
	if history[1].ActiveDisruptions != 0 || history[1].ActiveSeverity != 0 {
		t.Errorf("week 2: expected the event expired, got %d (severity %v)", history[1].ActiveDisruptions, history[1].ActiveSeverity)
	}
}

// TestStepper_MultiWeekDisruption keeps a three-week event active across its
// whole window and expires it afterwards.
func TestStepper_MultiWeekDisruption(t *testing.T) {
	source := &scriptedSource{byWeek: map[int][]model.Disruption{
		2: {{Type: model.DisruptionPolitical, Region: "Solo", Severity: 0.5, WeekOccurred: 2, DurationWeeks: 3}},
	}}
	s := newTestStepper(t, 6, source)

	for !s.Completed() {
		if err := s.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	wantActive := map[int]int{1: 0, 2: 1, 3: 1, 4: 1, 5: 0, 6: 0}
	for _, wm := range s.History() {
		if wm.ActiveDisruptions != wantActive[wm.Week] {
			t.Errorf("week %d: expected %d active, got %d", wm.Week, wantActive[wm.Week], wm.ActiveDisruptions)
		}
	}
}

func TestStepper_DisruptionTotals(t *testing.T) {
	source := &scriptedSource{byWeek: map[int][]model.Disruption{
		1: {
			{Type: model.DisruptionNatural, Region: "Solo", Severity: 0.4, WeekOccurred: 1, DurationWeeks: 1},
			{Type: model.DisruptionPolitical, Region: "Solo", Severity: 0.3, WeekOccurred: 1, DurationWeeks: 2},
		},
		3: {{Type: model.DisruptionNatural, Region: "Solo", Severity: 0.2, WeekOccurred: 3, DurationWeeks: 1}},
	}}
	s := newTestStepper(t, 4, source)

	for !s.Completed() {
		if err := s.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	counts, totalSeverity := s.DisruptionTotals()
	if counts[model.DisruptionNatural] != 2 {
		t.Errorf("expected 2 natural events, got %d", counts[model.DisruptionNatural])
	}
	if counts[model.DisruptionPolitical] != 1 {
		t.Errorf("expected 1 political event, got %d", counts[model.DisruptionPolitical])
	}
	want := 0.4 + 0.3 + 0.2
	if diff := totalSeverity - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected total severity %v, got %v", want, totalSeverity)
	}
}

// TestStepper_InventoryDriftsTowardTarget verifies sustained good service
// rebuilds stock toward the target without overshooting.
func TestStepper_InventoryDriftsTowardTarget(t *testing.T) {
	s := newTestStepper(t, 52, &scriptedSource{})
	start := s.Inventory().CurrentLevel
	target := s.Inventory().TargetLevel

	for !s.Completed() {
		if err := s.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	final := s.Inventory().CurrentLevel
	if final < start {
		t.Errorf("inventory fell under sustained good service: %v -> %v", start, final)
	}
	if final > target {
		t.Errorf("inventory overshot the target: %v > %v", final, target)
	}
}

func TestStepper_InventoryNeverNegative(t *testing.T) {
	// A permanent maximal disruption load crushes service level, so the
	// depletion term dominates every week.
	byWeek := make(map[int][]model.Disruption)
	for week := 1; week <= 80; week++ {
		byWeek[week] = []model.Disruption{
			{Type: model.DisruptionNatural, Region: "Solo", Severity: 1.0, WeekOccurred: week, DurationWeeks: 1},
			{Type: model.DisruptionNatural, Region: "Solo", Severity: 1.0, WeekOccurred: week, DurationWeeks: 1},
		}
	}
	s := newTestStepper(t, 80, &scriptedSource{byWeek: byWeek})

	for !s.Completed() {
		if err := s.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if lvl := s.Inventory().CurrentLevel; lvl < 0 {
			t.Fatalf("week %d: inventory went negative: %v", s.Week(), lvl)
		}
	}
}
