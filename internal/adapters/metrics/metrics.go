package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "erp"

// Registry owns every collector of the service.
type Registry struct {
	reg *prometheus.Registry

	rateCacheLookups    *prometheus.CounterVec
	rateSourceErrors    *prometheus.CounterVec
	conversionsDegraded *prometheus.CounterVec
	ratePersistFailures prometheus.Counter

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ gateways.NormalizerMetrics = (*Registry)(nil)

// NewRegistry creates a registry with process and Go runtime collectors attached.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		rateCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_lookups_total",
				Help:      "Rate snapshot lookups by base currency and outcome",
			},
			[]string{"base", "result"},
		),
		rateSourceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_source_errors_total",
				Help:      "Failed fetches per rate source",
			},
			[]string{"source"},
		),
		conversionsDegraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_degraded_total",
				Help:      "Conversions that fell back to the input amount",
			},
			[]string{"reason"},
		),
		ratePersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_persist_failures_total",
				Help:      "Exchange rate rows that could not be stored",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// CacheHit implements gateways.NormalizerMetrics.
func (r *Registry) CacheHit(base string) {
	r.rateCacheLookups.WithLabelValues(base, "hit").Inc()
}

// CacheMiss implements gateways.NormalizerMetrics.
func (r *Registry) CacheMiss(base string) {
	r.rateCacheLookups.WithLabelValues(base, "miss").Inc()
}

// SourceError implements gateways.NormalizerMetrics.
func (r *Registry) SourceError(source string) {
	r.rateSourceErrors.WithLabelValues(source).Inc()
}

// ConversionDegraded implements gateways.NormalizerMetrics.
func (r *Registry) ConversionDegraded(reason string) {
	r.conversionsDegraded.WithLabelValues(reason).Inc()
}

// PersistFailed implements gateways.NormalizerMetrics.
func (r *Registry) PersistFailed() {
	r.ratePersistFailures.Inc()
}

// Middleware records count and latency of every request, labelled by route template.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry to tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
