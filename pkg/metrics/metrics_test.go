package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLifecycleCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLifecycle(reg)

	m.IncTransition("batch", "DRAFT", "OPEN")
	m.IncTransition("batch", "DRAFT", "OPEN")
	m.IncTransition("order", "", "PACKED")
	m.IncPayment("COMMITMENT", "UPI")
	m.IncPayout()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	cases := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"farmbatch_state_transitions_total", map[string]string{"entity": "batch", "from": "DRAFT", "to": "OPEN"}, 2},
		{"farmbatch_state_transitions_total", map[string]string{"entity": "order", "from": "unknown", "to": "PACKED"}, 1},
		{"farmbatch_payments_logged_total", map[string]string{"stage": "COMMITMENT", "method": "UPI"}, 1},
		{"farmbatch_farmer_payouts_logged_total", nil, 1},
	}
	for _, tc := range cases {
		got, err := fetchCounterValue(mfs, tc.name, tc.labels)
		if err != nil {
			t.Fatalf("fetch %s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s %v: expected %f got %f", tc.name, tc.labels, tc.want, got)
		}
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var l *Lifecycle
	l.IncTransition("batch", "a", "b")
	l.IncPayment("FINAL", "CASH")
	l.IncPayout()

	var h *HTTP
	h.ObserveRequest("GET", "/x", 200, time.Millisecond)

	NewLifecycle(nil).IncPayout()
}

func TestHTTPHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTP(reg)
	h.ObserveRequest("POST", "/api/v1/orders", 201, 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	sum, err := fetchHistogramSum(mfs, "farmbatch_http_request_duration_seconds", "route", "/api/v1/orders")
	if err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
	if sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetHistogram().GetSampleSum(), nil
				}
			}
		}
		return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
		return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func hasLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
