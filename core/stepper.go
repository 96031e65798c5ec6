package core

import (
	"fmt"
	"math/rand/v2"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// Inventory drift parameters: how quickly stock is rebuilt toward target
// under good service, how quickly poor service drains it, and the hard cap
// on the weekly change as a fraction of the target level.
const (
	inventoryReplenishRate = 0.25
	inventoryDepletionRate = 0.05
	inventoryMaxAdjustFrac = 0.10
)

type stepperPhase int

const (
	phaseNotStarted stepperPhase = iota
	phaseRunning
	phaseCompleted
)

// disruptionSource produces the disruptions that start in a given week.
// DisruptionGenerator is the production implementation; tests substitute
// scripted sources.
type disruptionSource interface {
	Generate(week int, rng *rand.Rand) []model.Disruption
}

// WeekStepper advances one simulated run week by week. Each Step call
// updates the economy, expires and generates disruptions, computes the
// week's KPI snapshot, and drifts inventory for the following week. A week
// is all-or-nothing: on a computation error nothing is appended and the
// run is dead.
type WeekStepper struct {
	weeks     int
	source    disruptionSource
	engine    *MetricsEngine
	economy   *Economy
	rng       *rand.Rand
	strategy  model.StrategyState
	inventory model.InventoryState

	phase   stepperPhase
	week    int
	active  []model.Disruption
	history []model.WeekMetrics

	// Totals over every disruption generated, used for the run summary.
	totalSeverity float64
	counts        map[model.DisruptionType]int
}

// NewWeekStepper wires a stepper from already-validated components.
func NewWeekStepper(weeks int, source disruptionSource, engine *MetricsEngine, economy *Economy, strategy model.StrategyState, inventory model.InventoryState, rng *rand.Rand) *WeekStepper {
	return &WeekStepper{
		weeks:     weeks,
		source:    source,
		engine:    engine,
		economy:   economy,
		rng:       rng,
		strategy:  strategy,
		inventory: inventory,
		counts:    make(map[model.DisruptionType]int),
	}
}

// Step simulates the next week. It returns an error once the run has
// completed or after a fatal computation error; weeks are never skipped.
func (s *WeekStepper) Step() error {
	if s.phase == phaseCompleted {
		return fmt.Errorf("step: run already completed after week %d", s.week)
	}
	s.phase = phaseRunning
	week := s.week + 1

	s.economy.Step(s.rng)

	// Expire disruptions whose duration has elapsed, then add this week's.
	active := s.active[:0]
	for _, d := range s.active {
		if d.ActiveAt(week) {
			active = append(active, d)
		}
	}
	s.active = active

	fresh := s.source.Generate(week, s.rng)
	for _, d := range fresh {
		s.counts[d.Type]++
		s.totalSeverity += d.Severity
	}
	s.active = append(s.active, fresh...)

	var prev *model.WeekMetrics
	if len(s.history) > 0 {
		prev = &s.history[len(s.history)-1]
	}
	wm, err := s.engine.Compute(StepInputs{
		Week:      week,
		Active:    s.active,
		Strategy:  s.strategy,
		Inventory: s.inventory,
		Economy:   s.economy,
		Prev:      prev,
	})
	if err != nil {
		return fmt.Errorf("week %d: %w", week, err)
	}

	// The week is now committed; everything below prepares the next one.
	s.history = append(s.history, wm)
	s.week = week
	s.driftInventory(wm.ServiceLevel)

	if s.week >= s.weeks {
		s.phase = phaseCompleted
	}
	return nil
}

// driftInventory moves the current level toward target when service is
// strong and drains it when service is poor, with the weekly change bounded
// to avoid oscillation.
func (s *WeekStepper) driftInventory(serviceLevel float64) {
	target := s.inventory.TargetLevel
	gap := target - s.inventory.CurrentLevel

	delta := inventoryReplenishRate*gap*serviceLevel - inventoryDepletionRate*target*(1-serviceLevel)
	bound := inventoryMaxAdjustFrac * target
	delta = clamp(delta, -bound, bound)

	s.inventory.CurrentLevel += delta
	if s.inventory.CurrentLevel < 0 {
		s.inventory.CurrentLevel = 0
	}
}

// Completed reports whether the configured number of weeks has been
// simulated.
func (s *WeekStepper) Completed() bool { return s.phase == phaseCompleted }

// Week returns the most recently completed week (0 before the first step).
func (s *WeekStepper) Week() int { return s.week }

// History returns the per-week metrics computed so far, in simulation order.
func (s *WeekStepper) History() []model.WeekMetrics { return s.history }

// Inventory returns the current inventory state.
func (s *WeekStepper) Inventory() model.InventoryState { return s.inventory }

// DisruptionTotals reports how many disruptions were generated per type and
// the summed severity across all of them.
func (s *WeekStepper) DisruptionTotals() (map[model.DisruptionType]int, float64) {
	return s.counts, s.totalSeverity
}
