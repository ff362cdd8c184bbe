package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// gathered returns the value of the sample of name whose labels include want.
func gathered(t *testing.T, reg *prom.Registry, name string, want map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, want)
	return 0
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveFetchDuration("items", 150*time.Millisecond, true)
	pr.IncFetchRetry("items")
	pr.SetNodes("items", 12)
	pr.AddPassOutcomes("rich_text_linked_items", "skipped", 2)
	pr.AddEmitted("items:default", 3, true)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(OutcomeWarning)

	if got := gathered(t, reg, "kontentsource_nodes", map[string]string{"kind": "items"}); got != 12 {
		t.Fatalf("nodes gauge = %v, want 12", got)
	}
	if got := gathered(t, reg, "kontentsource_pass_outcomes_total", map[string]string{"pass": "rich_text_linked_items", "status": "skipped"}); got != 2 {
		t.Fatalf("pass outcomes = %v, want 2", got)
	}
	if got := gathered(t, reg, "kontentsource_batch_aborts_total", map[string]string{"batch": "items:default"}); got != 1 {
		t.Fatalf("batch aborts = %v, want 1", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(OutcomeSuccess)

	path := filepath.Join(t.TempDir(), "kontentsource.prom")
	if err := pr.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `kontentsource_run_outcomes_total{outcome="success"} 1`) {
		t.Fatalf("textfile missing run outcome:\n%s", data)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveFetchDuration("types", time.Second, false)
	r.IncFetchRetry("types")
	r.SetNodes("types", 1)
	r.AddPassOutcomes("types", "decorated", 1)
	r.AddEmitted("types", 1, false)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(OutcomeFailed)
}
