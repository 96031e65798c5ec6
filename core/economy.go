package core

import (
	"math"
	"math/rand/v2"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// regionEconomy is the evolving economic state of one region.
type regionEconomy struct {
	gdpGrowth    float64 // annual rate, clamped to [-0.05, 0.10]
	inflation    float64 // annual rate, clamped to [0, 0.15]
	exchangeRate float64 // vs. baseline currency, clamped to [0.5, 2.0]
}

// Economy tracks per-region economic indicators and advances them with a
// weekly random walk. Updates iterate regions in their configured order so
// every random draw is reproducible from the run's seed.
type Economy struct {
	order    []string
	byRegion map[string]*regionEconomy
}

// NewEconomy initializes indicators at their baseline starting points:
// 2% GDP growth, 2% inflation, parity exchange rate.
func NewEconomy(regions []model.Region) *Economy {
	e := &Economy{
		order:    make([]string, 0, len(regions)),
		byRegion: make(map[string]*regionEconomy, len(regions)),
	}
	for _, r := range regions {
		e.order = append(e.order, r.Name)
		e.byRegion[r.Name] = &regionEconomy{
			gdpGrowth:    0.02,
			inflation:    0.02,
			exchangeRate: 1.0,
		}
	}
	return e
}

// Step advances every region's indicators by one week.
func (e *Economy) Step(rng *rand.Rand) {
	for _, name := range e.order {
		re := e.byRegion[name]
		re.gdpGrowth = clamp(re.gdpGrowth+rng.NormFloat64()*0.01, -0.05, 0.10)
		re.inflation = clamp(re.inflation+rng.NormFloat64()*0.005, 0, 0.15)
		re.exchangeRate = clamp(re.exchangeRate*math.Exp(rng.NormFloat64()*0.02), 0.5, 2.0)
	}
}

// GDPGrowth returns the current GDP growth rate for the region, or 0 for an
// unknown region.
func (e *Economy) GDPGrowth(region string) float64 {
	if re, ok := e.byRegion[region]; ok {
		return re.gdpGrowth
	}
	return 0
}

// Inflation returns the current inflation rate for the region, or 0 for an
// unknown region.
func (e *Economy) Inflation(region string) float64 {
	if re, ok := e.byRegion[region]; ok {
		return re.inflation
	}
	return 0
}

// ExchangeRate returns the current exchange rate for the region, or 1 for an
// unknown region.
func (e *Economy) ExchangeRate(region string) float64 {
	if re, ok := e.byRegion[region]; ok {
		return re.exchangeRate
	}
	return 1
}

// MeanAbsGDPGrowth is the economic-risk term: the mean absolute GDP growth
// rate across all regions. Returns 0 for an empty region set.
func (e *Economy) MeanAbsGDPGrowth() float64 {
	if len(e.order) == 0 {
		return 0
	}
	sum := 0.0
	for _, name := range e.order {
		sum += math.Abs(e.byRegion[name].gdpGrowth)
	}
	return sum / float64(len(e.order))
}
