package montecarlo

import (
	"context"
	"reflect"
	"testing"

	"github.com/signalsfoundry/supplychain-simulator/core"
)

func testBatchConfig() *core.Config {
	cfg := core.DefaultConfig()
	cfg.Simulation.MonteCarloIterations = 8
	cfg.Simulation.SimulationLengthWeeks = 10
	return cfg
}

func TestNewDriver_RejectsInvalidConfig(t *testing.T) {
	cfg := testBatchConfig()
	cfg.Simulation.MonteCarloIterations = 0
	if _, err := NewDriver(cfg, core.ScenarioBaseline); err == nil {
		t.Fatalf("expected a validation error")
	}
}

func TestDriver_Run(t *testing.T) {
	driver, err := NewDriver(testBatchConfig(), core.ScenarioBaseline)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	res, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.BatchID == "" {
		t.Errorf("expected a batch ID")
	}
	if res.Scenario != "baseline" {
		t.Errorf("expected scenario baseline, got %q", res.Scenario)
	}
	if res.Iterations != 8 || res.Succeeded != 8 || res.Failed != 0 {
		t.Errorf("unexpected run accounting: %d iterations, %d ok, %d failed", res.Iterations, res.Succeeded, res.Failed)
	}
	if len(res.Summaries) != 8 {
		t.Fatalf("expected 8 summaries, got %d", len(res.Summaries))
	}
	for i, s := range res.Summaries {
		if s.Iteration != i {
			t.Errorf("summary %d carries iteration %d; batch order must follow iteration index", i, s.Iteration)
		}
	}
	if res.Stats.Resilience.Mean <= 0 || res.Stats.Resilience.Mean > 1 {
		t.Errorf("implausible mean resilience %v", res.Stats.Resilience.Mean)
	}
}

// TestDriver_Reproducible runs the same seeded batch twice and expects
// identical summaries and statistics; only the batch ID may differ.
func TestDriver_Reproducible(t *testing.T) {
	exec := func() *Result {
		driver, err := NewDriver(testBatchConfig(), core.ScenarioBaseline)
		if err != nil {
			t.Fatalf("NewDriver: %v", err)
		}
		res, err := driver.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	a, b := exec(), exec()
	if a.BatchID == b.BatchID {
		t.Errorf("expected distinct batch IDs")
	}
	if !reflect.DeepEqual(a.Summaries, b.Summaries) {
		t.Errorf("same-seed batches produced different summaries")
	}
	if !reflect.DeepEqual(a.Stats, b.Stats) {
		t.Errorf("same-seed batches produced different statistics")
	}
}

// TestDriver_ParallelMatchesSequential verifies bounded parallelism changes
// only the execution schedule, never the results.
func TestDriver_ParallelMatchesSequential(t *testing.T) {
	exec := func(parallelism int) *Result {
		driver, err := NewDriver(testBatchConfig(), core.ScenarioBaseline, WithParallelism(parallelism))
		if err != nil {
			t.Fatalf("NewDriver: %v", err)
		}
		res, err := driver.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	sequential := exec(1)
	parallel := exec(4)
	if !reflect.DeepEqual(sequential.Summaries, parallel.Summaries) {
		t.Errorf("parallel execution changed the summaries")
	}
	if !reflect.DeepEqual(sequential.Stats, parallel.Stats) {
		t.Errorf("parallel execution changed the statistics")
	}
}

func TestDriver_Cancellation(t *testing.T) {
	driver, err := NewDriver(testBatchConfig(), core.ScenarioBaseline)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.Run(ctx); err == nil {
		t.Fatalf("expected an error from a cancelled batch")
	}
}

func TestDriver_ScenarioSweepDiffers(t *testing.T) {
	exec := func(s core.Scenario) *Result {
		cfg, err := core.ScenarioConfig(testBatchConfig(), s)
		if err != nil {
			t.Fatalf("ScenarioConfig: %v", err)
		}
		driver, err := NewDriver(cfg, s)
		if err != nil {
			t.Fatalf("NewDriver: %v", err)
		}
		res, err := driver.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	baseline := exec(core.ScenarioBaseline)
	disrupted := exec(core.ScenarioMultiFactorDisruption)

	// The multi-factor scenario nearly doubles disruption rates; over 8 runs
	// of 10 weeks the expected event count is clearly separated.
	if disrupted.Stats.DisruptionCount.Mean <= baseline.Stats.DisruptionCount.Mean {
		t.Errorf("expected more disruptions under multi_factor_disruption: %v vs %v",
			disrupted.Stats.DisruptionCount.Mean, baseline.Stats.DisruptionCount.Mean)
	}
}
