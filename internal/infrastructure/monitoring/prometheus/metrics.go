package prometheus

import (
	"fmt"
	"time"
)

// PipelineMetrics holds every metric the analysis pipeline and its serving
// surfaces emit.  All record helpers are nil-safe so callers without a
// collector (the CLI) can pass a nil *PipelineMetrics and skip the plumbing.
type PipelineMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Ingest layer
	EventsLoadedTotal  CounterVec
	EventsSkippedTotal CounterVec
	IngestDuration     HistogramVec

	// Pipeline layer
	AnalysisRunsTotal   CounterVec
	AnalysisRunDuration HistogramVec
	GraphVertices       GaugeVec
	GraphEdges          GaugeVec
	CommunitiesByTier   GaugeVec

	// System health
	ErrorsTotal CounterVec
}

var (
	defaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	defaultRunDurationBuckets  = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}
)

// NewPipelineMetrics registers all pipeline metrics on the collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	m := &PipelineMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", defaultHTTPDurationBuckets, "method", "path")

	m.EventsLoadedTotal = collector.RegisterCounter("events_loaded_total", "Events loaded from a source", "source")
	m.EventsSkippedTotal = collector.RegisterCounter("events_skipped_total", "Rows skipped during ingest", "source", "reason")
	m.IngestDuration = collector.RegisterHistogram("ingest_duration_seconds", "Ingest duration", defaultRunDurationBuckets, "source")

	m.AnalysisRunsTotal = collector.RegisterCounter("analysis_runs_total", "Analysis runs", "status")
	m.AnalysisRunDuration = collector.RegisterHistogram("analysis_run_duration_seconds", "End-to-end analysis run duration", defaultRunDurationBuckets, "status")
	m.GraphVertices = collector.RegisterGauge("graph_vertices", "Vertices in the most recent similarity graph", "kind")
	m.GraphEdges = collector.RegisterGauge("graph_edges", "Edges in the most recent similarity graph", "kind")
	m.CommunitiesByTier = collector.RegisterGauge("communities_by_tier", "Communities classified in the most recent run", "tier")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")
	return m
}

// RecordHTTPRequest observes one served HTTP request.
func (m *PipelineMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordIngest observes one completed ingest pass.
func (m *PipelineMetrics) RecordIngest(source string, loaded, skipped int, duration time.Duration) {
	if m == nil {
		return
	}
	m.EventsLoadedTotal.WithLabelValues(source).Add(float64(loaded))
	m.EventsSkippedTotal.WithLabelValues(source, "invalid_row").Add(float64(skipped))
	m.IngestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordRun counts one pipeline run and its duration by outcome status.
func (m *PipelineMetrics) RecordRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisRunsTotal.WithLabelValues(status).Inc()
	m.AnalysisRunDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordGraph publishes the size of the most recently built graph.
func (m *PipelineMetrics) RecordGraph(vertices, edges int) {
	if m == nil {
		return
	}
	m.GraphVertices.WithLabelValues("event").Set(float64(vertices))
	m.GraphEdges.WithLabelValues("similarity").Set(float64(edges))
}

// RecordTiers publishes per-tier community counts for the most recent run.
func (m *PipelineMetrics) RecordTiers(focal, priority, attention int) {
	if m == nil {
		return
	}
	m.CommunitiesByTier.WithLabelValues("focal_point").Set(float64(focal))
	m.CommunitiesByTier.WithLabelValues("priority_area").Set(float64(priority))
	m.CommunitiesByTier.WithLabelValues("attention_area").Set(float64(attention))
}

// RecordError counts one error by component and code.
func (m *PipelineMetrics) RecordError(component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
