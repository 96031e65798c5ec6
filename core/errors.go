package core

import "fmt"

// ConfigError reports a missing or out-of-range configuration parameter. It
// is always raised during validation, before any run starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// ComputationError reports a KPI formula producing a non-finite value. It is
// fatal to the run that encountered it; the Monte Carlo driver records the
// run as failed rather than substituting a default.
type ComputationError struct {
	Week   int
	Metric string
	Value  float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("week %d: metric %s is not finite (%v)", e.Week, e.Metric, e.Value)
}
