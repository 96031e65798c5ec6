package core

import (
	"fmt"
	"math/rand/v2"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// RunResult is the complete output of one simulated run: the ordered
// week-by-week metrics and their scalar summary.
type RunResult struct {
	Metrics []model.WeekMetrics `json:"metrics"`
	Summary model.RunSummary    `json:"summary"`
}

// SimulationRun drives a single run over the configured horizon. All state
// (regions, strategy, inventory, economy) is owned exclusively by the run;
// nothing is shared across Monte Carlo iterations.
type SimulationRun struct {
	cfg       *Config
	scenario  string
	iteration int
	rng       *rand.Rand
}

// NewSimulationRun prepares a run from a validated configuration and an
// injected random source. The scenario name and iteration index only label
// the resulting summary.
func NewSimulationRun(cfg *Config, scenario string, iteration int, rng *rand.Rand) (*SimulationRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SimulationRun{
		cfg:       cfg,
		scenario:  scenario,
		iteration: iteration,
		rng:       rng,
	}, nil
}

// Execute runs the full horizon and returns the metrics series plus its
// summary. A computation error anywhere aborts the run; partial series are
// never returned.
func (r *SimulationRun) Execute() (*RunResult, error) {
	cfg := r.cfg
	engine, err := NewMetricsEngine(cfg.Regions, cfg.Metrics, cfg.Simulation.MaxRecoveryTimeWeeks)
	if err != nil {
		return nil, err
	}

	strategy := cfg.Strategies.Levels()
	inventory := model.InventoryState{
		CurrentLevel:     cfg.InitialInventory,
		TargetLevel:      cfg.TargetInventory,
		BaseHoldingCost:  cfg.BaseHoldingCost,
		DemandVolatility: cfg.DemandVolatility,
	}
	gen := NewDisruptionGenerator(cfg.Regions, cfg.Simulation.DisruptionTypes, cfg.Simulation.MaxDurationWeeks)
	economy := NewEconomy(cfg.Regions)

	stepper := NewWeekStepper(cfg.Simulation.SimulationLengthWeeks, gen, engine, economy, strategy, inventory, r.rng)
	for !stepper.Completed() {
		if err := stepper.Step(); err != nil {
			return nil, fmt.Errorf("run %s iteration %d: %w", r.scenario, r.iteration, err)
		}
	}

	history := stepper.History()
	counts, totalSeverity := stepper.DisruptionTotals()
	summary := r.summarize(history, counts, totalSeverity, engine.StrategyCost(strategy), stepper.Inventory())
	return &RunResult{Metrics: history, Summary: summary}, nil
}

// summarize reduces the week series into the run-level scalars, including
// the run-level ROI: the potential loss avoided by resilience, net of the
// cumulative strategy investment.
func (r *SimulationRun) summarize(history []model.WeekMetrics, counts map[model.DisruptionType]int, totalSeverity, weeklyStrategyCost float64, inventory model.InventoryState) model.RunSummary {
	weeks := len(history)
	s := model.RunSummary{
		RunID:               fmt.Sprintf("%s-%04d", r.scenario, r.iteration),
		Scenario:            r.scenario,
		Iteration:           r.iteration,
		Weeks:               weeks,
		MinServiceLevel:     1,
		DisruptionsByType:   make(map[model.DisruptionType]int, len(counts)),
		TotalSeverity:       totalSeverity,
		FinalInventoryLevel: inventory.CurrentLevel,
	}
	if weeks == 0 {
		return s
	}

	supplierSums := make(map[string]float64)
	weeksAtTarget := 0
	for _, wm := range history {
		if wm.ServiceLevel >= r.cfg.Metrics.ServiceLevelTarget {
			weeksAtTarget++
		}
		s.AvgResilience += wm.ResilienceScore
		s.AvgCostImpact += wm.CostImpact
		s.AvgServiceLevel += wm.ServiceLevel
		s.AvgRecoveryTime += wm.RecoveryTime
		s.AvgRiskExposure += wm.RiskExposure
		s.AvgTransportEff += wm.TransportationEfficiency
		s.AvgInventoryHealth += wm.InventoryHealth
		if wm.CostImpact > s.MaxCostImpact {
			s.MaxCostImpact = wm.CostImpact
		}
		if wm.ServiceLevel < s.MinServiceLevel {
			s.MinServiceLevel = wm.ServiceLevel
		}
		for region, perf := range wm.SupplierPerformance {
			supplierSums[region] += perf
		}
	}
	n := float64(weeks)
	s.AvgResilience /= n
	s.AvgCostImpact /= n
	s.AvgServiceLevel /= n
	s.AvgRecoveryTime /= n
	s.AvgRiskExposure /= n
	s.AvgTransportEff /= n
	s.AvgInventoryHealth /= n
	s.FinalServiceLevel = history[weeks-1].ServiceLevel
	s.ServiceAttainment = float64(weeksAtTarget) / n

	s.SupplierPerfByName = make(map[string]float64, len(supplierSums))
	for region, sum := range supplierSums {
		s.SupplierPerfByName[region] = sum / n
	}

	for t, c := range counts {
		s.DisruptionsByType[t] = c
		s.DisruptionCount += c
	}

	// ROI: potential loss scaled by realized resilience versus the total
	// strategy investment over the horizon. Zero investment means zero ROI,
	// not a division error.
	investment := weeklyStrategyCost * n
	if investment > 0 {
		s.ROI = (totalSeverity*s.AvgResilience - investment) / investment
	}
	return s
}
