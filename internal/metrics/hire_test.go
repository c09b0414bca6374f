package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHireObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHire(reg)

	m.Observe(OutcomeHired, 10*time.Millisecond)
	m.Observe(OutcomeConflict, 5*time.Millisecond)
	m.Observe(OutcomeConflict, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	counts := map[string]float64{}
	var observations uint64
	for _, mf := range families {
		switch mf.GetName() {
		case "hire_attempts_total":
			for _, metric := range mf.GetMetric() {
				counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
			}
		case "hire_duration_seconds":
			observations = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}

	if counts[OutcomeHired] != 1 || counts[OutcomeConflict] != 2 {
		t.Errorf("unexpected counters %v", counts)
	}
	if observations != 3 {
		t.Errorf("histogram samples = %d, want 3", observations)
	}
}

func TestNilHireIsNoop(t *testing.T) {
	var m *Hire
	m.Observe(OutcomeHired, time.Second)
}
