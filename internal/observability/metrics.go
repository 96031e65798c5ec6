package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles Prometheus metrics for Monte Carlo execution and
// provides a ready-to-serve /metrics handler.
type SimCollector struct {
	gatherer prometheus.Gatherer

	RunsTotal    *prometheus.CounterVec
	RunDurations prometheus.Histogram
	WeeksTotal   prometheus.Counter
	Disruptions  *prometheus.CounterVec

	BatchResilience   prometheus.Gauge
	BatchServiceLevel prometheus.Gauge
	BatchCostImpact   prometheus.Gauge
}

// NewSimCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Re-registering against the same registry returns the existing collectors.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_runs_total",
		Help: "Total Monte Carlo runs executed, labeled by scenario and outcome.",
	}, []string{"scenario", "status"})
	runs, err := registerCounterVec(reg, runs, "sim_runs_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_run_duration_seconds",
		Help:    "Wall-clock duration of a single simulated run.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
	durations, err = registerHistogram(reg, durations, "sim_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	weeks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_weeks_simulated_total",
		Help: "Total simulated weeks across all runs.",
	})
	weeks, err = registerCounter(reg, weeks, "sim_weeks_simulated_total")
	if err != nil {
		return nil, err
	}

	disruptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_disruptions_total",
		Help: "Total disruptions generated across all runs, labeled by type.",
	}, []string{"type"})
	disruptions, err = registerCounterVec(reg, disruptions, "sim_disruptions_total")
	if err != nil {
		return nil, err
	}

	resilience, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_batch_avg_resilience",
		Help: "Mean resilience score of the most recently aggregated batch.",
	}), "sim_batch_avg_resilience")
	if err != nil {
		return nil, err
	}
	service, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_batch_avg_service_level",
		Help: "Mean service level of the most recently aggregated batch.",
	}), "sim_batch_avg_service_level")
	if err != nil {
		return nil, err
	}
	cost, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_batch_avg_cost_impact",
		Help: "Mean cost impact of the most recently aggregated batch.",
	}), "sim_batch_avg_cost_impact")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:          gatherer,
		RunsTotal:         runs,
		RunDurations:      durations,
		WeeksTotal:        weeks,
		Disruptions:       disruptions,
		BatchResilience:   resilience,
		BatchServiceLevel: service,
		BatchCostImpact:   cost,
	}, nil
}

// RunCompleted records one finished run.
func (c *SimCollector) RunCompleted(scenario string, weeks int, seconds float64) {
	if c == nil {
		return
	}
	c.RunsTotal.WithLabelValues(scenario, "ok").Inc()
	c.WeeksTotal.Add(float64(weeks))
	c.RunDurations.Observe(seconds)
}

// RunFailed records one run aborted by a computation error.
func (c *SimCollector) RunFailed(scenario string) {
	if c == nil {
		return
	}
	c.RunsTotal.WithLabelValues(scenario, "failed").Inc()
}

// DisruptionObserved counts disruptions generated during a run, by type.
func (c *SimCollector) DisruptionObserved(disruptionType string, count int) {
	if c == nil || count == 0 {
		return
	}
	c.Disruptions.WithLabelValues(disruptionType).Add(float64(count))
}

// SetBatchAverages publishes the headline KPIs of the latest batch.
func (c *SimCollector) SetBatchAverages(resilience, serviceLevel, costImpact float64) {
	if c == nil {
		return
	}
	c.BatchResilience.Set(resilience)
	c.BatchServiceLevel.Set(serviceLevel)
	c.BatchCostImpact.Set(costImpact)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, ctr prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(ctr); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return ctr, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
