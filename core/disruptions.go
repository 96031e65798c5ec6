package core

import (
	"math"
	"math/rand/v2"

	"github.com/signalsfoundry/supplychain-simulator/model"
)

// DisruptionGenerator decides, for every enabled disruption type and every
// region, whether an event occurs in a given week, and draws its severity
// and duration. It has no state of its own beyond configuration: all
// randomness comes from the rand source passed to Generate, so the same
// seed always yields the same event stream.
type DisruptionGenerator struct {
	regions     []model.Region
	types       []model.DisruptionType
	maxDuration int
}

// NewDisruptionGenerator builds a generator over the configured regions and
// enabled disruption types. maxDuration bounds how long a single event can
// remain active.
func NewDisruptionGenerator(regions []model.Region, types []model.DisruptionType, maxDuration int) *DisruptionGenerator {
	if maxDuration < 1 {
		maxDuration = 1
	}
	return &DisruptionGenerator{
		regions:     regions,
		types:       append([]model.DisruptionType(nil), types...),
		maxDuration: maxDuration,
	}
}

// Generate returns the disruptions that start in the given week. With no
// enabled types it returns an empty set every week.
func (g *DisruptionGenerator) Generate(week int, rng *rand.Rand) []model.Disruption {
	var out []model.Disruption
	for _, region := range g.regions {
		for _, t := range g.types {
			p := occurrenceProbability(region, t)
			if p <= 0 || rng.Float64() >= p {
				continue
			}
			severity := drawSeverity(region, t, rng)
			out = append(out, model.Disruption{
				Type:          t,
				Region:        region.Name,
				Severity:      severity,
				WeekOccurred:  week,
				DurationWeeks: g.durationForSeverity(severity),
			})
		}
	}
	return out
}

// occurrenceProbability is the region's weekly base rate scaled by how
// exposed the region is to the given category: political fragility for
// political events, infrastructure gaps for infrastructure events.
func occurrenceProbability(region model.Region, t model.DisruptionType) float64 {
	switch t {
	case model.DisruptionNatural:
		return region.DisasterProbability
	case model.DisruptionPolitical:
		return region.DisasterProbability * (1 - region.PoliticalStability)
	case model.DisruptionInfrastructure:
		return region.DisasterProbability * (1 - region.InfrastructureQuality)
	}
	return 0
}

// drawSeverity samples a base severity uniformly on [0.1, 1.0) and scales it
// by the region's vulnerability to the event category, clamping back into
// [0.1, 1.0]. Severity is independent of whether the event occurred.
func drawSeverity(region model.Region, t model.DisruptionType, rng *rand.Rand) float64 {
	base := 0.1 + rng.Float64()*0.9
	var scaled float64
	switch t {
	case model.DisruptionPolitical:
		scaled = base * (1 - region.PoliticalStability)
	default: // natural, infrastructure
		scaled = base * (1 - region.InfrastructureQuality)
	}
	return clamp(scaled, 0.1, 1.0)
}

// durationForSeverity maps severity onto [1, maxDuration] weeks: more severe
// events stay active longer.
func (g *DisruptionGenerator) durationForSeverity(severity float64) int {
	d := 1 + int(math.Floor(severity*float64(g.maxDuration-1)))
	if d > g.maxDuration {
		d = g.maxDuration
	}
	if d < 1 {
		d = 1
	}
	return d
}
