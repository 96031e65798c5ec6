package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// Internal JSON shapes, kept unexported so the on-disk format can evolve
// independently: a "simulation" block, a "regions" name-to-attributes
// mapping, "resilience_strategies", and a "metrics" block.
type configJSON struct {
	Simulation       *simulationJSON         `json:"simulation"`
	InitialInventory *float64                `json:"initial_inventory"`
	TargetInventory  *float64                `json:"target_inventory"`
	BaseHoldingCost  *float64                `json:"base_holding_cost"`
	DemandVolatility *float64                `json:"demand_volatility"`
	COO              map[string]float64      `json:"coo"`
	RegionalManager  map[string]float64      `json:"regional_manager"`
	Supplier         map[string]float64      `json:"supplier"`
	Regions          map[string]regionJSON   `json:"regions"`
	Strategies       map[string]strategyJSON `json:"resilience_strategies"`
	Metrics          *metricsJSON            `json:"metrics"`
}

type simulationJSON struct {
	MonteCarloIterations  *int     `json:"monte_carlo_iterations"`
	Seed                  *uint64  `json:"seed"`
	SimulationLengthWeeks *int     `json:"simulation_length_weeks"`
	MaxSteps              *int     `json:"max_steps"` // legacy alias for simulation_length_weeks
	DisruptionTypes       []string `json:"disruption_types"`
	MaxRecoveryTimeWeeks  *float64 `json:"max_recovery_time_weeks"`
	MaxDurationWeeks      *int     `json:"max_duration_weeks"`
}

type regionJSON struct {
	PoliticalStability    float64 `json:"political_stability"`
	DisasterProbability   float64 `json:"disaster_probability"`
	LaborCost             float64 `json:"labor_cost"`
	InfrastructureQuality float64 `json:"infrastructure_quality"`
	MarketSize            float64 `json:"market_size"`
}

type strategyJSON struct {
	CostImpact         float64 `json:"cost_impact"`
	ResilienceImpact   float64 `json:"resilience_impact"`
	ImplementationTime int     `json:"implementation_time"`
}

type metricsJSON struct {
	ResilienceWeights  map[string]float64 `json:"resilience_weights"`
	CostWeights        map[string]float64 `json:"cost_weights"`
	ServiceLevelTarget *float64           `json:"service_level_target"`
}

// LoadConfig reads a JSON configuration from r and overlays it on the
// defaults, so a file only needs to name the values it changes. The result
// is normalized but not validated; callers run Validate before use.
func LoadConfig(r io.Reader) (*Config, []string, error) {
	var payload configJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("load config: decode failed: %w", err)
	}

	cfg := DefaultConfig()

	if sim := payload.Simulation; sim != nil {
		if sim.MonteCarloIterations != nil {
			cfg.Simulation.MonteCarloIterations = *sim.MonteCarloIterations
		}
		if sim.Seed != nil {
			cfg.Simulation.Seed = *sim.Seed
		}
		if sim.SimulationLengthWeeks != nil {
			cfg.Simulation.SimulationLengthWeeks = *sim.SimulationLengthWeeks
		} else if sim.MaxSteps != nil {
			cfg.Simulation.SimulationLengthWeeks = *sim.MaxSteps
		}
		if sim.DisruptionTypes != nil {
			types := make([]model.DisruptionType, 0, len(sim.DisruptionTypes))
			for _, t := range sim.DisruptionTypes {
				types = append(types, model.DisruptionType(t))
			}
			cfg.Simulation.DisruptionTypes = types
		}
		if sim.MaxRecoveryTimeWeeks != nil {
			cfg.Simulation.MaxRecoveryTimeWeeks = *sim.MaxRecoveryTimeWeeks
		}
		if sim.MaxDurationWeeks != nil {
			cfg.Simulation.MaxDurationWeeks = *sim.MaxDurationWeeks
		}
	}

	if payload.InitialInventory != nil {
		cfg.InitialInventory = *payload.InitialInventory
	}
	if payload.TargetInventory != nil {
		cfg.TargetInventory = *payload.TargetInventory
	}
	if payload.BaseHoldingCost != nil {
		cfg.BaseHoldingCost = *payload.BaseHoldingCost
	}
	if payload.DemandVolatility != nil {
		cfg.DemandVolatility = *payload.DemandVolatility
	}

	if payload.COO != nil {
		cfg.COO = AgentTraits(payload.COO)
	}
	if payload.RegionalManager != nil {
		cfg.RegionalManager = AgentTraits(payload.RegionalManager)
	}
	if payload.Supplier != nil {
		cfg.Supplier = AgentTraits(payload.Supplier)
	}

	if payload.Regions != nil {
		// The file stores regions as a name-to-attributes map; sort names so
		// the in-memory order (and therefore every random draw) is stable.
		names := make([]string, 0, len(payload.Regions))
		for name := range payload.Regions {
			names = append(names, name)
		}
		sort.Strings(names)

		regions := make([]model.Region, 0, len(names))
		for _, name := range names {
			rj := payload.Regions[name]
			regions = append(regions, model.Region{
				Name:                  name,
				PoliticalStability:    rj.PoliticalStability,
				DisasterProbability:   rj.DisasterProbability,
				LaborCost:             rj.LaborCost,
				InfrastructureQuality: rj.InfrastructureQuality,
				MarketSize:            rj.MarketSize,
			})
		}
		cfg.Regions = regions
	}

	for name, sj := range payload.Strategies {
		params := StrategyParams{
			CostImpact:              sj.CostImpact,
			ResilienceImpact:        sj.ResilienceImpact,
			ImplementationTimeWeeks: sj.ImplementationTime,
		}
		switch name {
		case "supplier_diversification":
			cfg.Strategies.SupplierDiversification = params
		case "inventory_management":
			cfg.Strategies.InventoryManagement = params
		case "transportation_flexibility":
			cfg.Strategies.TransportationFlexibility = params
		default:
			return nil, nil, fmt.Errorf("load config: unknown resilience strategy %q", name)
		}
	}

	if m := payload.Metrics; m != nil {
		if m.ResilienceWeights != nil {
			w, err := weightsFromMap("metrics.resilience_weights", m.ResilienceWeights)
			if err != nil {
				return nil, nil, err
			}
			cfg.Metrics.ResilienceWeights = w
		}
		if m.CostWeights != nil {
			w, err := weightsFromMap("metrics.cost_weights", m.CostWeights)
			if err != nil {
				return nil, nil, err
			}
			cfg.Metrics.CostWeights = w
		}
		if m.ServiceLevelTarget != nil {
			cfg.Metrics.ServiceLevelTarget = *m.ServiceLevelTarget
		}
	}

	notes := cfg.Normalize()
	return cfg, notes, nil
}

func weightsFromMap(field string, m map[string]float64) (model.StrategyWeights, error) {
	var w model.StrategyWeights
	for name, v := range m {
		switch name {
		case "supplier_diversification":
			w.SupplierDiversification = v
		case "inventory_management":
			w.InventoryManagement = v
		case "transportation_flexibility":
			w.TransportationFlexibility = v
		default:
			return w, fmt.Errorf("load config: %s: unknown strategy %q", field, name)
		}
	}
	return w, nil
}
