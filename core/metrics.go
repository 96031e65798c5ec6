package core

import (
	"math"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

const baseServiceLevel = 0.98 // industry-standard fulfillment target

// StepInputs carries everything the metrics engine needs for one week. The
// engine itself is pure: it holds only configuration and derives the KPIs
// entirely from these inputs.
type StepInputs struct {
	Week      int
	Active    []model.Disruption // disruptions active this week
	Strategy  model.StrategyState
	Inventory model.InventoryState
	Economy   *Economy
	Prev      *model.WeekMetrics // nil for the first week
}

// MetricsEngine computes the weekly KPIs in a fixed dependency order:
// regional performance first, then transportation efficiency, inventory
// health, service level, cost impact, recovery time, risk exposure, and
// finally the resilience score. Later metrics consume earlier ones, so the
// order is part of the contract.
type MetricsEngine struct {
	regions         []model.Region
	weights         MetricsConfig
	maxRecoveryTime float64
	baseRisk        float64
}

// NewMetricsEngine builds an engine over the configured regions. It fails
// fast on an empty region set; every divisor in the KPI formulas assumes at
// least one region.
func NewMetricsEngine(regions []model.Region, weights MetricsConfig, maxRecoveryTime float64) (*MetricsEngine, error) {
	if len(regions) == 0 {
		return nil, &ConfigError{Field: "regions", Reason: "metrics engine requires at least one region"}
	}
	if maxRecoveryTime <= 0 {
		return nil, &ConfigError{Field: "simulation.max_recovery_time_weeks", Reason: "must be > 0"}
	}

	// Base risk depends only on static region attributes.
	baseRisk := 0.0
	for _, r := range regions {
		baseRisk += r.DisasterProbability * (1 - r.InfrastructureQuality)
	}
	baseRisk /= float64(len(regions))

	return &MetricsEngine{
		regions:         regions,
		weights:         weights,
		maxRecoveryTime: maxRecoveryTime,
		baseRisk:        baseRisk,
	}, nil
}

// Compute derives the week's KPI snapshot. It never mutates its inputs; a
// non-finite intermediate result yields a *ComputationError and no metrics.
func (e *MetricsEngine) Compute(in StepInputs) (model.WeekMetrics, error) {
	numRegions := float64(len(e.regions))
	severitySum := 0.0
	for _, d := range in.Active {
		severitySum += d.Severity
	}

	// 1. Per-region supplier and regional performance.
	supplierPerf := make(map[string]float64, len(e.regions))
	regionalPerf := make(map[string]float64, len(e.regions))
	regionalSum := 0.0
	for _, r := range e.regions {
		supplier := e.supplierScore(r, in)
		supplierPerf[r.Name] = supplier
		regional := 0.4*supplier + 0.3*r.InfrastructureQuality + 0.3*r.PoliticalStability
		regionalPerf[r.Name] = regional
		regionalSum += regional
	}
	regionalAvg := regionalSum / numRegions

	// 2. Transportation efficiency.
	baseEfficiency := 0.0
	for _, r := range e.regions {
		baseEfficiency += r.InfrastructureQuality
	}
	baseEfficiency /= numRegions
	transportImpact := severitySum / numRegions
	transportEff := clamp01(baseEfficiency - transportImpact*(1-in.Strategy.TransportationFlexibility))

	// 3. Inventory health. The holding-cost component consumes the previous
	// week's disruption losses only; strategy spend is excluded so raising
	// an adoption level cannot depress the next week's inventory health.
	// Week one sees no prior losses.
	prevDisruptionCost := 0.0
	if in.Prev != nil {
		prevDisruptionCost = 0.5 * in.Prev.ActiveSeverity
	}
	stockScore := clamp01(in.Inventory.CurrentLevel / in.Inventory.TargetLevel)
	holdingScore := clamp01(1 - 0.3*prevDisruptionCost)
	matchingScore := clamp01(1 - in.Inventory.DemandVolatility)
	inventoryHealth := clamp01(0.4*stockScore + 0.3*holdingScore + 0.3*matchingScore)

	// 4. Service level.
	serviceLevel := clamp01(baseServiceLevel * (1 - severitySum/20) * regionalAvg * inventoryHealth)

	// 5. Cost impact: strategy investment plus disruption losses.
	strategyCost := e.weights.CostWeights.Dot(in.Strategy)
	costImpact := strategyCost + 0.5*severitySum

	// 6. Recovery time, floored at one week.
	maxSeverity := 0.0
	for _, d := range in.Active {
		if d.Severity > maxSeverity {
			maxSeverity = d.Severity
		}
	}
	effectiveness := e.weights.ResilienceWeights.Dot(in.Strategy)
	recoveryTime := math.Max(1, maxSeverity*10*(1-effectiveness))

	// 7. Risk exposure.
	riskExposure := clamp01(e.baseRisk + severitySum/10 + in.Economy.MeanAbsGDPGrowth())

	// 8. Resilience score.
	recoveryScore := clamp01(1 - recoveryTime/e.maxRecoveryTime)
	stabilityScore := (serviceLevel + transportEff + inventoryHealth) / 3
	resilience := clamp01(0.4*recoveryScore + 0.3*(1-riskExposure) + 0.3*stabilityScore)

	wm := model.WeekMetrics{
		Week:                     in.Week,
		TransportationEfficiency: transportEff,
		InventoryHealth:          inventoryHealth,
		ServiceLevel:             serviceLevel,
		CostImpact:               costImpact,
		RecoveryTime:             recoveryTime,
		RiskExposure:             riskExposure,
		ResilienceScore:          resilience,
		ActiveDisruptions:        len(in.Active),
		ActiveSeverity:           severitySum,
		RegionalPerformance:      regionalPerf,
		SupplierPerformance:      supplierPerf,
	}
	if err := checkFinite(&wm); err != nil {
		return model.WeekMetrics{}, err
	}
	return wm, nil
}

// supplierScore is the region's base performance (infrastructure quality)
// reduced by half the local disruption severity and adjusted by economic
// health (GDP growth minus inflation).
func (e *MetricsEngine) supplierScore(r model.Region, in StepInputs) float64 {
	impact := 0.0
	for _, d := range in.Active {
		if d.Region == r.Name {
			impact += d.Severity
		}
	}
	impact /= 2

	economic := in.Economy.GDPGrowth(r.Name) - in.Economy.Inflation(r.Name)
	return clamp01(r.InfrastructureQuality - impact + economic)
}

// StrategyCost returns the weekly cost of the configured strategy levels
// without any disruption contribution.
func (e *MetricsEngine) StrategyCost(s model.StrategyState) float64 {
	return e.weights.CostWeights.Dot(s)
}

func checkFinite(wm *model.WeekMetrics) error {
	checks := []struct {
		name  string
		value float64
	}{
		{"transportation_efficiency", wm.TransportationEfficiency},
		{"inventory_health", wm.InventoryHealth},
		{"service_level", wm.ServiceLevel},
		{"cost_impact", wm.CostImpact},
		{"recovery_time", wm.RecoveryTime},
		{"risk_exposure", wm.RiskExposure},
		{"resilience_score", wm.ResilienceScore},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ComputationError{Week: wm.Week, Metric: c.name, Value: c.value}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }
