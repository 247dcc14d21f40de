package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orgchart"

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchBillets  prometheus.Gauge

	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	buildNodes    prometheus.Histogram
	integrity     *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "source",
			Name: "fetches_total",
			Help: "Record fetches by source and result.",
		}, []string{"source", "result"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "source",
			Name:    "fetch_duration_seconds",
			Help:    "Record fetch latency.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"source"}),
		fetchBillets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "source",
			Name: "billets",
			Help: "Billets returned by the last successful fetch.",
		}),
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "graph",
			Name: "builds_total",
			Help: "Graph builds by placement (engine or grid).",
		}, []string{"layout"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "graph",
			Name:    "build_duration_seconds",
			Help:    "Graph build latency including layout.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		buildNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "graph",
			Name:    "rendered_nodes",
			Help:    "Rendered nodes per build.",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		}),
		integrity: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "graph",
			Name: "integrity_issues_total",
			Help: "Repaired record problems by kind.",
		}, []string{"kind"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache",
			Name: "operations_total",
			Help: "Cache lookups and writes by key type and outcome.",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache",
			Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http",
			Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http",
			Name:    "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) OnFetchStart(context.Context, string) {}

func (p *Prometheus) OnFetchComplete(_ context.Context, source string, billets int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		p.fetchBillets.Set(float64(billets))
	}
	p.fetches.WithLabelValues(source, result).Inc()
	p.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *Prometheus) OnBuildComplete(_ context.Context, nodes int, layout string, d time.Duration) {
	p.builds.WithLabelValues(layout).Inc()
	p.buildDuration.Observe(d.Seconds())
	p.buildNodes.Observe(float64(nodes))
}

func (p *Prometheus) OnIntegrityIssue(_ context.Context, kind string) {
	p.integrity.WithLabelValues(kind).Inc()
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ BuildHooks  = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ ServerHooks = (*Prometheus)(nil)
)
