package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestSimCollectorRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.RunCompleted("baseline", 52, 0.012)
	collector.RunCompleted("baseline", 52, 0.008)
	collector.RunFailed("baseline")
	collector.DisruptionObserved("natural", 3)
	collector.DisruptionObserved("political", 0) // zero counts are dropped

	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("baseline", "ok")); got != 2 {
		t.Errorf("sim_runs_total{status=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("baseline", "failed")); got != 1 {
		t.Errorf("sim_runs_total{status=failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.WeeksTotal); got != 104 {
		t.Errorf("sim_weeks_simulated_total = %v, want 104", got)
	}
	if got := testutil.ToFloat64(collector.Disruptions.WithLabelValues("natural")); got != 3 {
		t.Errorf("sim_disruptions_total{type=natural} = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.Disruptions.WithLabelValues("political")); got != 0 {
		t.Errorf("sim_disruptions_total{type=political} = %v, want 0", got)
	}

	if count := histogramSampleCount(t, reg, "sim_run_duration_seconds"); count != 2 {
		t.Errorf("sim_run_duration_seconds sample_count = %d, want 2", count)
	}
}

// TestSimCollectorReregistration ensures building a second collector against
// the same registry reuses the existing metrics instead of failing.
func TestSimCollectorReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector (first): %v", err)
	}
	second, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector (second): %v", err)
	}

	first.RunCompleted("baseline", 10, 0.001)
	second.RunCompleted("baseline", 10, 0.001)

	if got := testutil.ToFloat64(first.RunsTotal.WithLabelValues("baseline", "ok")); got != 2 {
		t.Errorf("expected both collectors to share sim_runs_total, got %v", got)
	}
}

func TestSimCollectorNilSafe(t *testing.T) {
	var collector *SimCollector
	collector.RunCompleted("baseline", 52, 0.01)
	collector.RunFailed("baseline")
	collector.DisruptionObserved("natural", 1)
	collector.SetBatchAverages(0.5, 0.9, 1.2)
}

func TestMetricsHandlerExposesBatchGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	collector.SetBatchAverages(0.61, 0.87, 1.33)
	collector.RunCompleted("supplier_disruption", 52, 0.02)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"sim_runs_total",
		"sim_run_duration_seconds",
		"sim_weeks_simulated_total",
		"sim_batch_avg_resilience",
		"sim_batch_avg_service_level",
		"sim_batch_avg_cost_impact",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "0.61") || !strings.Contains(body, "0.87") || !strings.Contains(body, "1.33") {
		t.Fatalf("/metrics output missing batch gauge values: %s", body)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	for _, m := range findFamily(t, gatherer, name).GetMetric() {
		if m.GetHistogram() != nil {
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func findFamily(t *testing.T, gatherer prometheus.Gatherer, name string) *dto.MetricFamily {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %q not found", name)
	return nil
}
