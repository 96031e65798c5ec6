package model

// InventoryState tracks the inventory position of the network as a whole.
// CurrentLevel is mutated weekly by the stepper; the remaining fields are
// run-level constants taken from configuration.
type InventoryState struct {
	CurrentLevel     float64 `json:"current_level"`
	TargetLevel      float64 `json:"target_level"`
	BaseHoldingCost  float64 `json:"base_holding_cost"` // fraction of inventory value
	DemandVolatility float64 `json:"demand_volatility"` // [0,1]
}
