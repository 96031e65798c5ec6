package model

// WeekMetrics is the immutable KPI snapshot for one simulated week, together
// with the raw inputs the KPIs were computed from. One WeekMetrics is
// appended per week, in simulation order, and never mutated afterwards.
type WeekMetrics struct {
	Week int `json:"week"` // 1-based

	// The weekly KPIs, in their computation order. ResilienceScore,
	// ServiceLevel, RiskExposure, TransportationEfficiency and
	// InventoryHealth are clamped to [0,1]; RecoveryTime is >= 1.
	TransportationEfficiency float64 `json:"transportation_efficiency"`
	InventoryHealth          float64 `json:"inventory_health"`
	ServiceLevel             float64 `json:"service_level"`
	CostImpact               float64 `json:"cost_impact"`
	RecoveryTime             float64 `json:"recovery_time"` // weeks
	RiskExposure             float64 `json:"risk_exposure"`
	ResilienceScore          float64 `json:"resilience_score"`

	// Raw inputs retained for reporting.
	ActiveDisruptions   int                `json:"active_disruptions"`
	ActiveSeverity      float64            `json:"active_severity"` // sum over active disruptions
	RegionalPerformance map[string]float64 `json:"regional_performance"`
	SupplierPerformance map[string]float64 `json:"supplier_performance"`
}
