// Package metrics provides run metrics for sourcing.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// check for nil. PrometheusRecorder collects into a registry that can be
// written to a node_exporter textfile after each run.
package metrics
