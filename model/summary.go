package model

// RunSummary condenses one simulated run's week-by-week metrics into scalar
// summaries. It is derived once the run's WeekMetrics sequence is complete.
type RunSummary struct {
	RunID     string `json:"run_id"` // "<scenario>-<iteration>", stable across executions
	Scenario  string `json:"scenario"`
	Iteration int    `json:"iteration"`
	Weeks     int    `json:"weeks"`

	AvgResilience       float64 `json:"avg_resilience"`
	AvgCostImpact       float64 `json:"avg_cost_impact"`
	MaxCostImpact       float64 `json:"max_cost_impact"`
	AvgServiceLevel     float64 `json:"avg_service_level"`
	MinServiceLevel     float64 `json:"min_service_level"`
	FinalServiceLevel   float64 `json:"final_service_level"`
	ServiceAttainment   float64 `json:"service_level_attainment"` // fraction of weeks at or above the configured target
	AvgRecoveryTime     float64 `json:"avg_recovery_time"`
	AvgRiskExposure     float64 `json:"avg_risk_exposure"`
	AvgTransportEff     float64 `json:"transportation_efficiency"`
	AvgInventoryHealth  float64 `json:"inventory_health"`
	ROI                 float64 `json:"avg_roi"`
	FinalInventoryLevel float64 `json:"final_inventory_level"`

	DisruptionCount    int                    `json:"disruption_count"`
	DisruptionsByType  map[DisruptionType]int `json:"disruptions_by_type"`
	TotalSeverity      float64                `json:"total_severity"` // sum over generated disruptions
	SupplierPerfByName map[string]float64     `json:"supplier_performance"`
}
