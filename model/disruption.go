package model

// DisruptionType identifies the category of a disruption event.
type DisruptionType string

const (
	DisruptionNatural        DisruptionType = "natural"
	DisruptionPolitical      DisruptionType = "political"
	DisruptionInfrastructure DisruptionType = "infrastructure"
)

// AllDisruptionTypes lists every known disruption category in a stable order.
var AllDisruptionTypes = []DisruptionType{
	DisruptionNatural,
	DisruptionPolitical,
	DisruptionInfrastructure,
}

// KnownDisruptionType reports whether t is one of the supported categories.
func KnownDisruptionType(t DisruptionType) bool {
	switch t {
	case DisruptionNatural, DisruptionPolitical, DisruptionInfrastructure:
		return true
	}
	return false
}

// Disruption is a transient adverse event affecting one region. It is created
// by the disruption generator and retained only while active.
type Disruption struct {
	Type          DisruptionType `json:"type"`
	Region        string         `json:"region"`
	Severity      float64        `json:"severity"` // [0.1,1]
	WeekOccurred  int            `json:"week_occurred"`
	DurationWeeks int            `json:"duration_weeks"` // >= 1
}

// ActiveAt reports whether the disruption is still in effect during the given
// week. A disruption occurring at week w with duration d covers weeks
// w through w+d-1 inclusive.
func (d Disruption) ActiveAt(week int) bool {
	return week >= d.WeekOccurred && week < d.WeekOccurred+d.DurationWeeks
}
