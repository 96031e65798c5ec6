package core

import "fmt"

// Scenario names a disruption stress profile applied on top of a base
// configuration.
type Scenario string

const (
	ScenarioBaseline                 Scenario = "baseline"
	ScenarioSupplierDisruption       Scenario = "supplier_disruption"
	ScenarioTransportationDisruption Scenario = "transportation_disruption"
	ScenarioProductionDisruption     Scenario = "production_disruption"
	ScenarioMultiFactorDisruption    Scenario = "multi_factor_disruption"
)

// Scenarios lists every known scenario in presentation order.
var Scenarios = []Scenario{
	ScenarioBaseline,
	ScenarioSupplierDisruption,
	ScenarioTransportationDisruption,
	ScenarioProductionDisruption,
	ScenarioMultiFactorDisruption,
}

// ScenarioConfig derives the configuration for the given scenario from base.
// The base configuration is never mutated; each scenario operates on a deep
// copy.
func ScenarioConfig(base *Config, s Scenario) (*Config, error) {
	cfg := base.Clone()
	switch s {
	case ScenarioBaseline:
		// Normal operating conditions.
	case ScenarioSupplierDisruption:
		scaleRegions(cfg, func(p *regionParams) {
			p.disasterProbability *= 2.0
		})
	case ScenarioTransportationDisruption:
		scaleRegions(cfg, func(p *regionParams) {
			p.infrastructureQuality *= 0.7
		})
	case ScenarioProductionDisruption:
		scaleRegions(cfg, func(p *regionParams) {
			p.disasterProbability *= 1.5
		})
		scaleTrait(cfg.Supplier, "production_capacity", 0.6)
	case ScenarioMultiFactorDisruption:
		scaleRegions(cfg, func(p *regionParams) {
			p.disasterProbability *= 1.8
			p.infrastructureQuality *= 0.8
		})
		scaleTrait(cfg.Supplier, "production_capacity", 0.7)
	default:
		return nil, fmt.Errorf("unknown scenario %q", s)
	}
	return cfg, nil
}

type regionParams struct {
	disasterProbability   float64
	infrastructureQuality float64
}

func scaleRegions(cfg *Config, apply func(*regionParams)) {
	for i := range cfg.Regions {
		p := regionParams{
			disasterProbability:   cfg.Regions[i].DisasterProbability,
			infrastructureQuality: cfg.Regions[i].InfrastructureQuality,
		}
		apply(&p)
		cfg.Regions[i].DisasterProbability = clamp(p.disasterProbability, 0, 1)
		cfg.Regions[i].InfrastructureQuality = clamp(p.infrastructureQuality, 0, 1)
	}
}

func scaleTrait(traits AgentTraits, name string, factor float64) {
	if traits == nil {
		return
	}
	if v, ok := traits[name]; ok {
		traits[name] = clamp(v*factor, 0, 1)
	}
}
