// Package montecarlo repeats independent simulation runs and aggregates
// their summaries into distribution statistics.
package montecarlo

import (
	"math"
	"sort"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// Distribution summarizes one KPI across all successful iterations.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P05    float64 `json:"p05"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// Stats holds one Distribution per aggregated KPI.
type Stats struct {
	Resilience          Distribution `json:"resilience"`
	ServiceLevel        Distribution `json:"service_level"`
	CostImpact          Distribution `json:"cost_impact"`
	RecoveryTime        Distribution `json:"recovery_time"`
	RiskExposure        Distribution `json:"risk_exposure"`
	TransportEfficiency Distribution `json:"transportation_efficiency"`
	InventoryHealth     Distribution `json:"inventory_health"`
	ROI                 Distribution `json:"roi"`
	DisruptionCount     Distribution `json:"disruption_count"`
}

// Result is the outcome of one Monte Carlo batch: every per-run summary in
// iteration order plus the derived distribution statistics.
type Result struct {
	BatchID    string             `json:"batch_id"`
	Scenario   string             `json:"scenario"`
	Seed       uint64             `json:"seed"`
	Iterations int                `json:"iterations"`
	Succeeded  int                `json:"succeeded"`
	Failed     int                `json:"failed"`
	Summaries  []model.RunSummary `json:"summaries"`
	Stats      Stats              `json:"stats"`
}

// Aggregate reduces run summaries into distribution statistics. It is a
// pure reduction: re-aggregating the same summaries yields identical output,
// and the result does not depend on the order of the input beyond the
// per-KPI sample multiset.
func Aggregate(summaries []model.RunSummary) Stats {
	return Stats{
		Resilience:          NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgResilience })),
		ServiceLevel:        NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgServiceLevel })),
		CostImpact:          NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgCostImpact })),
		RecoveryTime:        NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgRecoveryTime })),
		RiskExposure:        NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgRiskExposure })),
		TransportEfficiency: NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgTransportEff })),
		InventoryHealth:     NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.AvgInventoryHealth })),
		ROI:                 NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return s.ROI })),
		DisruptionCount:     NewDistribution(collect(summaries, func(s model.RunSummary) float64 { return float64(s.DisruptionCount) })),
	}
}

func collect(summaries []model.RunSummary, f func(model.RunSummary) float64) []float64 {
	out := make([]float64, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, f(s))
	}
	return out
}

// NewDistribution computes summary statistics over the samples. The standard
// deviation is the sample (n-1) form; percentiles use linear interpolation
// between order statistics. An empty sample set yields a zero Distribution.
func NewDistribution(samples []float64) Distribution {
	n := len(samples)
	if n == 0 {
		return Distribution{}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	if n > 1 {
		for _, v := range sorted {
			d := v - mean
			variance += d * d
		}
		variance /= float64(n - 1)
	}

	return Distribution{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[n-1],
		P05:    percentile(sorted, 0.05),
		P25:    percentile(sorted, 0.25),
		P50:    percentile(sorted, 0.50),
		P75:    percentile(sorted, 0.75),
		P95:    percentile(sorted, 0.95),
	}
}

// percentile expects sorted input and interpolates linearly between the two
// nearest order statistics.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
