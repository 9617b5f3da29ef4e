package perf

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

func TestSnapshotJobThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	// Small listings finish quickly.
	for i := 0; i < 60; i++ {
		tracker := metrics.Track("export:snapshot")
		time.Sleep(5 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending snapshot tracker: %v", err)
		}
	}

	// Product listings render two documents over more rows.
	for i := 0; i < 15; i++ {
		tracker := metrics.Track("export:snapshot:productos")
		time.Sleep(20 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending product tracker: %v", err)
		}
	}

	// API outages surface as failures.
	for i := 0; i < 3; i++ {
		tracker := metrics.Track("export:snapshot")
		if err := tracker.End(errors.New("upstream: GET /api/areas: status 503")); err == nil {
			t.Fatal("expected error to propagate")
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "stockdesk_jobs_total", map[string]string{"job": "export:snapshot", "status": "success"})
	failure := metricValue(t, families, "stockdesk_jobs_total", map[string]string{"job": "export:snapshot", "status": "failure"})
	if success+failure == 0 {
		t.Fatal("no snapshot executions recorded")
	}
	ratio := success / (success + failure)
	if ratio < 0.9 {
		t.Fatalf("snapshot success ratio too low: %f", ratio)
	}

	productDuration := histogramMean(t, families, "stockdesk_job_duration_seconds", map[string]string{"job": "export:snapshot:productos"})
	if productDuration > 2.0 {
		t.Fatalf("product snapshot duration above budget: %f", productDuration)
	}

	listingDuration := histogramMean(t, families, "stockdesk_job_duration_seconds", map[string]string{"job": "export:snapshot"})
	if listingDuration > 0.5 {
		t.Fatalf("snapshot duration above budget: %f", listingDuration)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != val {
				return false
			}
		}
	}
	for key := range labels {
		found := false
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
