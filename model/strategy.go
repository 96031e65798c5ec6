package model

// StrategyState holds the adoption level of each resilience strategy for one
// run. Levels are in [0,1] and are fixed for the lifetime of the run.
type StrategyState struct {
	SupplierDiversification   float64 `json:"supplier_diversification"`
	InventoryManagement       float64 `json:"inventory_management"`
	TransportationFlexibility float64 `json:"transportation_flexibility"`
}

// StrategyWeights assigns one weight per resilience strategy. Used for both
// the cost weighting and the recovery-effectiveness weighting of the KPI
// formulas.
type StrategyWeights struct {
	SupplierDiversification   float64 `json:"supplier_diversification"`
	InventoryManagement       float64 `json:"inventory_management"`
	TransportationFlexibility float64 `json:"transportation_flexibility"`
}

// Dot returns the weighted sum of the strategy levels under w.
func (w StrategyWeights) Dot(s StrategyState) float64 {
	return w.SupplierDiversification*s.SupplierDiversification +
		w.InventoryManagement*s.InventoryManagement +
		w.TransportationFlexibility*s.TransportationFlexibility
}
