package core

import "testing"

func TestScenarioConfig_BaselineIsUnchanged(t *testing.T) {
	base := DefaultConfig()
	cfg, err := ScenarioConfig(base, ScenarioBaseline)
	if err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}
	for i, r := range cfg.Regions {
		if r != base.Regions[i] {
			t.Errorf("baseline changed region %s: %+v vs %+v", base.Regions[i].Name, r, base.Regions[i])
		}
	}
}

func TestScenarioConfig_DoesNotMutateBase(t *testing.T) {
	base := DefaultConfig()
	before := base.Regions[0].DisasterProbability

	if _, err := ScenarioConfig(base, ScenarioSupplierDisruption); err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}
	if base.Regions[0].DisasterProbability != before {
		t.Fatalf("scenario derivation mutated the base configuration")
	}
}

func TestScenarioConfig_SupplierDisruption(t *testing.T) {
	base := DefaultConfig()
	cfg, err := ScenarioConfig(base, ScenarioSupplierDisruption)
	if err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}
	for i, r := range cfg.Regions {
		want := clamp(base.Regions[i].DisasterProbability*2.0, 0, 1)
		if r.DisasterProbability != want {
			t.Errorf("region %s: expected disaster probability %v, got %v", r.Name, want, r.DisasterProbability)
		}
		if r.InfrastructureQuality != base.Regions[i].InfrastructureQuality {
			t.Errorf("region %s: infrastructure quality should be untouched", r.Name)
		}
	}
}

func TestScenarioConfig_TransportationDisruption(t *testing.T) {
	base := DefaultConfig()
	cfg, err := ScenarioConfig(base, ScenarioTransportationDisruption)
	if err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}
	for i, r := range cfg.Regions {
		want := clamp(base.Regions[i].InfrastructureQuality*0.7, 0, 1)
		if r.InfrastructureQuality != want {
			t.Errorf("region %s: expected infrastructure quality %v, got %v", r.Name, want, r.InfrastructureQuality)
		}
	}
}

func TestScenarioConfig_ProductionDisruptionScalesCapacity(t *testing.T) {
	base := DefaultConfig()
	cfg, err := ScenarioConfig(base, ScenarioProductionDisruption)
	if err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}

	wantCapacity := clamp(base.Supplier["production_capacity"]*0.6, 0, 1)
	if cfg.Supplier["production_capacity"] != wantCapacity {
		t.Errorf("expected production capacity %v, got %v", wantCapacity, cfg.Supplier["production_capacity"])
	}
	for i, r := range cfg.Regions {
		want := clamp(base.Regions[i].DisasterProbability*1.5, 0, 1)
		if r.DisasterProbability != want {
			t.Errorf("region %s: expected disaster probability %v, got %v", r.Name, want, r.DisasterProbability)
		}
	}
}

func TestScenarioConfig_MultiFactorDisruption(t *testing.T) {
	base := DefaultConfig()
	cfg, err := ScenarioConfig(base, ScenarioMultiFactorDisruption)
	if err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}
	for i, r := range cfg.Regions {
		if want := clamp(base.Regions[i].DisasterProbability*1.8, 0, 1); r.DisasterProbability != want {
			t.Errorf("region %s: expected disaster probability %v, got %v", r.Name, want, r.DisasterProbability)
		}
		if want := clamp(base.Regions[i].InfrastructureQuality*0.8, 0, 1); r.InfrastructureQuality != want {
			t.Errorf("region %s: expected infrastructure quality %v, got %v", r.Name, want, r.InfrastructureQuality)
		}
	}
	if want := clamp(base.Supplier["production_capacity"]*0.7, 0, 1); cfg.Supplier["production_capacity"] != want {
		t.Errorf("expected production capacity %v, got %v", want, cfg.Supplier["production_capacity"])
	}
}

func TestScenarioConfig_UnknownScenario(t *testing.T) {
	if _, err := ScenarioConfig(DefaultConfig(), Scenario("volcano_week")); err == nil {
		t.Fatalf("expected an error for an unknown scenario")
	}
}

func TestScenarioConfig_ProbabilitiesClamped(t *testing.T) {
	base := DefaultConfig()
	base.Regions[0].DisasterProbability = 0.9

	cfg, err := ScenarioConfig(base, ScenarioSupplierDisruption)
	if err != nil {
		t.Fatalf("ScenarioConfig: %v", err)
	}
	if cfg.Regions[0].DisasterProbability != 1.0 {
		t.Errorf("expected probability clamped to 1.0, got %v", cfg.Regions[0].DisasterProbability)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("scenario config should still validate, got %v", err)
	}
}
