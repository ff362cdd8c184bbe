package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

const namespace = "kontentsource"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	fetchDuration *prom.HistogramVec
	fetchRetries  *prom.CounterVec
	nodes         *prom.GaugeVec
	passOutcomes  *prom.CounterVec
	emitted       *prom.CounterVec
	batchAborts   *prom.CounterVec
	runDuration   prom.Histogram
	runOutcomes   *prom.CounterVec
	lastRun       prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of Delivery API listing fetches",
		Buckets:   prom.DefBuckets,
	}, []string{"resource", "result"})
	pr.fetchRetries = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_retries_total",
		Help:      "Retried Delivery API requests",
	}, []string{"resource"})
	pr.nodes = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "nodes",
		Help:      "Nodes produced by the last run by kind",
	}, []string{"kind"})
	pr.passOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "pass_outcomes_total",
		Help:      "Per-unit outcomes of normalization and decoration passes",
	}, []string{"pass", "status"})
	pr.emitted = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "nodes_emitted_total",
		Help:      "Nodes handed to the sink by batch",
	}, []string{"batch"})
	pr.batchAborts = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "batch_aborts_total",
		Help:      "Emission batches aborted by a sink failure",
	}, []string{"batch"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total sourcing run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Sourcing runs by final status",
	}, []string{"outcome"})
	pr.lastRun = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
	reg.MustRegister(pr.fetchDuration, pr.fetchRetries, pr.nodes, pr.passOutcomes,
		pr.emitted, pr.batchAborts, pr.runDuration, pr.runOutcomes, pr.lastRun)
	return pr
}

// Registry returns the registry metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveFetchDuration(resource string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fetchDuration.WithLabelValues(resource, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchRetry(resource string) {
	if p == nil {
		return
	}
	p.fetchRetries.WithLabelValues(resource).Inc()
}

func (p *PrometheusRecorder) SetNodes(kind string, n int) {
	if p == nil {
		return
	}
	p.nodes.WithLabelValues(kind).Set(float64(n))
}

func (p *PrometheusRecorder) AddPassOutcomes(pass, status string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.passOutcomes.WithLabelValues(pass, status).Add(float64(n))
}

func (p *PrometheusRecorder) AddEmitted(batch string, created int, aborted bool) {
	if p == nil {
		return
	}
	p.emitted.WithLabelValues(batch).Add(float64(created))
	if aborted {
		p.batchAborts.WithLabelValues(batch).Inc()
	}
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
	p.lastRun.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes all registered metrics to path in the text exposition
// format, for pickup by the node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}
