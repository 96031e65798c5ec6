package core

import (
	"fmt"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// Defaults for quantities the KPI formulas depend on but that older
// configuration files may omit. Normalize fills these in and reports each
// assumption it applied.
const (
	DefaultMaxRecoveryTimeWeeks = 10.0 // 10x the severity scale
	DefaultMaxDurationWeeks     = 4
	DefaultDemandVolatility     = 0.2
)

// SimulationConfig controls the Monte Carlo batch and the per-run horizon.
type SimulationConfig struct {
	MonteCarloIterations  int
	Seed                  uint64
	SimulationLengthWeeks int
	DisruptionTypes       []model.DisruptionType

	// MaxRecoveryTimeWeeks is the recovery-time ceiling used for the
	// resilience score; MaxDurationWeeks bounds how long a generated
	// disruption can stay active.
	MaxRecoveryTimeWeeks float64
	MaxDurationWeeks     int
}

// StrategyParams describes one resilience strategy as configured.
// ResilienceImpact doubles as the adoption level of the strategy.
type StrategyParams struct {
	CostImpact              float64
	ResilienceImpact        float64
	ImplementationTimeWeeks int
}

// StrategiesConfig holds the three recognized resilience strategies.
type StrategiesConfig struct {
	SupplierDiversification   StrategyParams
	InventoryManagement       StrategyParams
	TransportationFlexibility StrategyParams
}

// Levels returns the per-strategy adoption levels as a StrategyState.
func (s StrategiesConfig) Levels() model.StrategyState {
	return model.StrategyState{
		SupplierDiversification:   s.SupplierDiversification.ResilienceImpact,
		InventoryManagement:       s.InventoryManagement.ResilienceImpact,
		TransportationFlexibility: s.TransportationFlexibility.ResilienceImpact,
	}
}

// MetricsConfig carries the KPI weighting knobs.
type MetricsConfig struct {
	// ResilienceWeights weight the strategy levels when computing recovery
	// effectiveness (defaults 0.3/0.4/0.3).
	ResilienceWeights model.StrategyWeights
	// CostWeights weight the strategy levels when computing the weekly
	// strategy cost (defaults 0.5/0.3/0.2).
	CostWeights        model.StrategyWeights
	ServiceLevelTarget float64
}

// AgentTraits is a named block of decision-maker characteristics in [0,1].
// Traits are plain weighting inputs; they do not alter engine control flow.
type AgentTraits map[string]float64

// Config is the complete, explicit simulation configuration. It is
// constructed once (from defaults or a JSON file), validated, and passed by
// reference into runs; there is no ambient configuration state.
type Config struct {
	Simulation SimulationConfig

	InitialInventory float64
	TargetInventory  float64
	BaseHoldingCost  float64
	DemandVolatility float64

	COO             AgentTraits
	RegionalManager AgentTraits
	Supplier        AgentTraits

	// Regions in a fixed, deterministic order; engine arithmetic iterates
	// this slice, never a map.
	Regions []model.Region

	Strategies StrategiesConfig
	Metrics    MetricsConfig
}

// DefaultConfig returns the baseline configuration: three regions, all
// disruption types enabled, 52-week horizon.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			MonteCarloIterations:  1000,
			Seed:                  42,
			SimulationLengthWeeks: 52,
			DisruptionTypes:       append([]model.DisruptionType(nil), model.AllDisruptionTypes...),
			MaxRecoveryTimeWeeks:  DefaultMaxRecoveryTimeWeeks,
			MaxDurationWeeks:      DefaultMaxDurationWeeks,
		},
		InitialInventory: 1000,
		TargetInventory:  1200,
		BaseHoldingCost:  0.2,
		DemandVolatility: DefaultDemandVolatility,
		COO: AgentTraits{
			"decision_making_speed":    0.8,
			"risk_tolerance":           0.6,
			"strategic_vision":         0.9,
			"leadership_effectiveness": 0.85,
			"communication_clarity":    0.8,
		},
		RegionalManager: AgentTraits{
			"local_market_knowledge": 0.85,
			"operational_efficiency": 0.75,
			"team_management":        0.8,
			"risk_assessment":        0.7,
			"supplier_relationship":  0.8,
		},
		Supplier: AgentTraits{
			"production_capacity":   0.7,
			"quality_consistency":   0.8,
			"delivery_reliability":  0.75,
			"cost_efficiency":       0.7,
			"innovation_capability": 0.6,
		},
		Regions: []model.Region{
			{
				Name:                  "East_Asia",
				PoliticalStability:    0.6,
				DisasterProbability:   0.15,
				LaborCost:             0.7,
				InfrastructureQuality: 0.85,
				MarketSize:            0.9,
			},
			{
				Name:                  "Europe",
				PoliticalStability:    0.7,
				DisasterProbability:   0.08,
				LaborCost:             1.1,
				InfrastructureQuality: 0.95,
				MarketSize:            0.7,
			},
			{
				Name:                  "North_America",
				PoliticalStability:    0.8,
				DisasterProbability:   0.1,
				LaborCost:             1.0,
				InfrastructureQuality: 0.9,
				MarketSize:            0.8,
			},
		},
		Strategies: StrategiesConfig{
			SupplierDiversification: StrategyParams{
				CostImpact:              0.4,
				ResilienceImpact:        0.6,
				ImplementationTimeWeeks: 12,
			},
			InventoryManagement: StrategyParams{
				CostImpact:              0.3,
				ResilienceImpact:        0.4,
				ImplementationTimeWeeks: 8,
			},
			TransportationFlexibility: StrategyParams{
				CostImpact:              0.2,
				ResilienceImpact:        0.3,
				ImplementationTimeWeeks: 6,
			},
		},
		Metrics: MetricsConfig{
			ResilienceWeights: model.StrategyWeights{
				SupplierDiversification:   0.3,
				InventoryManagement:       0.4,
				TransportationFlexibility: 0.3,
			},
			CostWeights: model.StrategyWeights{
				SupplierDiversification:   0.5,
				InventoryManagement:       0.3,
				TransportationFlexibility: 0.2,
			},
			ServiceLevelTarget: 0.95,
		},
	}
}

// Clone returns a deep copy of the configuration. Scenario presets operate
// on clones so the base configuration is never mutated.
func (c *Config) Clone() *Config {
	out := *c
	out.Simulation.DisruptionTypes = append([]model.DisruptionType(nil), c.Simulation.DisruptionTypes...)
	out.Regions = append([]model.Region(nil), c.Regions...)
	out.COO = cloneTraits(c.COO)
	out.RegionalManager = cloneTraits(c.RegionalManager)
	out.Supplier = cloneTraits(c.Supplier)
	return &out
}

func cloneTraits(t AgentTraits) AgentTraits {
	if t == nil {
		return nil
	}
	out := make(AgentTraits, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Normalize fills in documented defaults for quantities the KPI formulas
// need but the configuration left unset. It returns one note per assumption
// applied so callers can surface them.
func (c *Config) Normalize() []string {
	var notes []string
	if c.Simulation.MaxRecoveryTimeWeeks == 0 {
		c.Simulation.MaxRecoveryTimeWeeks = DefaultMaxRecoveryTimeWeeks
		notes = append(notes, fmt.Sprintf("simulation.max_recovery_time_weeks unset, assuming %.0f", DefaultMaxRecoveryTimeWeeks))
	}
	if c.Simulation.MaxDurationWeeks == 0 {
		c.Simulation.MaxDurationWeeks = DefaultMaxDurationWeeks
		notes = append(notes, fmt.Sprintf("simulation.max_duration_weeks unset, assuming %d", DefaultMaxDurationWeeks))
	}
	if c.DemandVolatility == 0 {
		c.DemandVolatility = DefaultDemandVolatility
		notes = append(notes, fmt.Sprintf("demand_volatility unset, assuming %.2f", DefaultDemandVolatility))
	}
	return notes
}

// Validate checks the configuration and returns a *ConfigError describing
// the first problem found. It must pass before any run starts.
func (c *Config) Validate() error {
	if c.Simulation.MonteCarloIterations < 1 {
		return &ConfigError{Field: "simulation.monte_carlo_iterations", Reason: "must be >= 1"}
	}
	if c.Simulation.SimulationLengthWeeks < 1 {
		return &ConfigError{Field: "simulation.simulation_length_weeks", Reason: "must be >= 1"}
	}
	for _, t := range c.Simulation.DisruptionTypes {
		if !model.KnownDisruptionType(t) {
			return &ConfigError{
				Field:  "simulation.disruption_types",
				Reason: fmt.Sprintf("unknown disruption type %q", t),
			}
		}
	}
	if c.Simulation.MaxRecoveryTimeWeeks <= 0 {
		return &ConfigError{Field: "simulation.max_recovery_time_weeks", Reason: "must be > 0"}
	}
	if c.Simulation.MaxDurationWeeks < 1 {
		return &ConfigError{Field: "simulation.max_duration_weeks", Reason: "must be >= 1"}
	}

	if len(c.Regions) == 0 {
		return &ConfigError{Field: "regions", Reason: "at least one region is required"}
	}
	seen := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if r.Name == "" {
			return &ConfigError{Field: "regions", Reason: "region with empty name"}
		}
		if seen[r.Name] {
			return &ConfigError{Field: "regions." + r.Name, Reason: "duplicate region name"}
		}
		seen[r.Name] = true
		if err := validateUnit("regions."+r.Name+".political_stability", r.PoliticalStability); err != nil {
			return err
		}
		if r.DisasterProbability < 0 || r.DisasterProbability > 1 {
			return &ConfigError{Field: "regions." + r.Name + ".disaster_probability", Reason: "must be in [0,1]"}
		}
		if err := validateUnit("regions."+r.Name+".infrastructure_quality", r.InfrastructureQuality); err != nil {
			return err
		}
		if err := validateUnit("regions."+r.Name+".market_size", r.MarketSize); err != nil {
			return err
		}
		if r.LaborCost <= 0 {
			return &ConfigError{Field: "regions." + r.Name + ".labor_cost", Reason: "must be > 0"}
		}
	}

	if c.InitialInventory < 0 {
		return &ConfigError{Field: "initial_inventory", Reason: "must be >= 0"}
	}
	if c.TargetInventory <= 0 {
		return &ConfigError{Field: "target_inventory", Reason: "must be > 0"}
	}
	if c.BaseHoldingCost < 0 {
		return &ConfigError{Field: "base_holding_cost", Reason: "must be >= 0"}
	}
	if err := validateUnit("demand_volatility", c.DemandVolatility); err != nil {
		return err
	}

	for _, block := range []struct {
		name   string
		traits AgentTraits
	}{
		{"coo", c.COO},
		{"regional_manager", c.RegionalManager},
		{"supplier", c.Supplier},
	} {
		for trait, v := range block.traits {
			if v < 0 || v > 1 {
				return &ConfigError{Field: block.name + "." + trait, Reason: "must be in [0,1]"}
			}
		}
	}

	for _, s := range []struct {
		name   string
		params StrategyParams
	}{
		{"supplier_diversification", c.Strategies.SupplierDiversification},
		{"inventory_management", c.Strategies.InventoryManagement},
		{"transportation_flexibility", c.Strategies.TransportationFlexibility},
	} {
		if err := validateUnit("resilience_strategies."+s.name+".resilience_impact", s.params.ResilienceImpact); err != nil {
			return err
		}
		if s.params.CostImpact < 0 {
			return &ConfigError{Field: "resilience_strategies." + s.name + ".cost_impact", Reason: "must be >= 0"}
		}
	}

	if err := validateUnit("metrics.service_level_target", c.Metrics.ServiceLevelTarget); err != nil {
		return err
	}
	return nil
}

func validateUnit(field string, v float64) error {
	if v < 0 || v > 1 {
		return &ConfigError{Field: field, Reason: "must be in [0,1]"}
	}
	return nil
}
