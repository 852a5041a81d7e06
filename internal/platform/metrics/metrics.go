package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gamenight"

// Metrics holds the Prometheus collectors for the ingestion pipeline and the
// scoring surface. All record methods are nil-safe so callers can run with
// metrics disabled.
type Metrics struct {
	registry *prometheus.Registry

	documentsProcessed *prometheus.CounterVec
	recordsWritten     *prometheus.CounterVec
	pipelineErrors     *prometheus.CounterVec
	runDuration        *prometheus.HistogramVec
	lastRunUnix        *prometheus.GaugeVec

	scoreRequests prometheus.Counter
	scoreLatency  prometheus.Histogram
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.documentsProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "documents_processed_total",
		Help:      "Input documents processed, by component.",
	}, []string{"component"})

	m.recordsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "records_written_total",
		Help:      "Rows written by the pipeline, by component and action.",
	}, []string{"component", "action"})

	m.pipelineErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "errors_total",
		Help:      "Recorded non-fatal pipeline errors, by component and category.",
	}, []string{"component", "category"})

	m.runDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of pipeline runs, by kind.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"kind"})

	m.lastRunUnix = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "last_run_unix",
		Help:      "Unix timestamp of the last completed run, by kind.",
	}, []string{"kind"})

	m.scoreRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "compat",
		Name:      "score_requests_total",
		Help:      "Compatibility score computations requested.",
	})

	m.scoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "compat",
		Name:      "score_latency_seconds",
		Help:      "Latency of compatibility score requests, cache included.",
		Buckets:   prometheus.DefBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "compat",
		Name:      "score_cache_hits_total",
		Help:      "Compatibility score cache hits.",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "compat",
		Name:      "score_cache_misses_total",
		Help:      "Compatibility score cache misses.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	m.httpLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) DocumentProcessed(component string) {
	if m == nil {
		return
	}
	m.documentsProcessed.WithLabelValues(component).Inc()
}

func (m *Metrics) RecordWritten(component, action string) {
	if m == nil {
		return
	}
	m.recordsWritten.WithLabelValues(component, action).Inc()
}

func (m *Metrics) PipelineError(component, category string) {
	if m == nil {
		return
	}
	m.pipelineErrors.WithLabelValues(component, category).Inc()
}

func (m *Metrics) ObserveRun(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(kind).Observe(d.Seconds())
	m.lastRunUnix.WithLabelValues(kind).Set(float64(time.Now().Unix()))
}

func (m *Metrics) ObserveScore(d time.Duration) {
	if m == nil {
		return
	}
	m.scoreRequests.Inc()
	m.scoreLatency.Observe(d.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}
