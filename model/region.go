package model

// Region describes the static attributes of one geography participating in
// the supply chain. A Region is built from configuration at run start and is
// read-only for the lifetime of a run.
type Region struct {
	Name                  string  `json:"name"`
	PoliticalStability    float64 `json:"political_stability"`    // [0,1], 1 = fully stable
	DisasterProbability   float64 `json:"disaster_probability"`   // weekly occurrence base rate
	LaborCost             float64 `json:"labor_cost"`             // cost multiplier, 1.0 = baseline
	InfrastructureQuality float64 `json:"infrastructure_quality"` // [0,1], 1 = best
	MarketSize            float64 `json:"market_size"`            // [0,1] relative market share
}
