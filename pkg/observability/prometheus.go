package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements every hook interface on top of Prometheus collectors.
// Each Metrics owns its registry, so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	aggregateDuration prometheus.Histogram
	graphNodes        prometheus.Histogram
	graphDangling     prometheus.Counter
	layoutDuration    *prometheus.HistogramVec
	layoutEdges       prometheus.Histogram
	renderDuration    *prometheus.HistogramVec
	cacheRequests     *prometheus.CounterVec
	cacheBytes        *prometheus.CounterVec
	sourceRequests    *prometheus.CounterVec
	sourceDuration    *prometheus.HistogramVec
	sourceErrors      *prometheus.CounterVec
	serverRequests    *prometheus.CounterVec
	serverDuration    *prometheus.HistogramVec
}

// NewMetrics registers the graphweave collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 9)
	return &Metrics{
		registry: reg,
		aggregateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphweave_aggregate_duration_seconds",
			Help:    "Time spent merging fragments into a graph",
			Buckets: prometheus.DefBuckets,
		}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphweave_graph_nodes",
			Help:    "Nodes per aggregated graph",
			Buckets: sizeBuckets,
		}),
		graphDangling: f.NewCounter(prometheus.CounterOpts{
			Name: "graphweave_dangling_edges_total",
			Help: "Edges that referenced unknown nodes",
		}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphweave_layout_duration_seconds",
			Help:    "Time spent simulating and projecting a layout",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"status"}),
		layoutEdges: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphweave_layout_edges",
			Help:    "Projected edges per layout",
			Buckets: sizeBuckets,
		}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphweave_render_duration_seconds",
			Help:    "Time spent rendering artifacts",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphweave_cache_requests_total",
			Help: "Cache lookups by key type and result",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphweave_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"type"}),
		sourceRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphweave_source_requests_total",
			Help: "Requests to graph sources by host and status",
		}, []string{"host", "status"}),
		sourceDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphweave_source_request_duration_seconds",
			Help:    "Duration of requests to graph sources",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		sourceErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphweave_source_errors_total",
			Help: "Failed requests to graph sources",
		}, []string{"host"}),
		serverRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphweave_http_requests_total",
			Help: "Total number of API requests processed",
		}, []string{"method", "route", "status"}),
		serverDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphweave_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served API request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.serverRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.serverDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) OnAggregateStart(context.Context, int) {}

func (m *Metrics) OnAggregateComplete(_ context.Context, nodes, _, dangling int, d time.Duration) {
	m.aggregateDuration.Observe(d.Seconds())
	m.graphNodes.Observe(float64(nodes))
	m.graphDangling.Add(float64(dangling))
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _, edges int, d time.Duration, err error) {
	m.layoutDuration.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil {
		m.layoutEdges.Observe(float64(edges))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	m.sourceRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	m.sourceDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.sourceErrors.WithLabelValues(host).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ SourceHooks   = (*Metrics)(nil)
)
