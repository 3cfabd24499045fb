// Package metrics exposes Prometheus collectors for the HTTP API and the
// forecast pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Forecast metrics
	ForecastsComputed   prometheus.Counter
	ScenariosComputed   prometheus.Counter
	ForecastDuration    prometheus.Histogram
	ForecastErrors      *prometheus.CounterVec
	OptimizerIterations prometheus.Histogram

	// Cache metrics
	CacheRequests *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_forecast_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "condo_forecast_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "condo_forecast_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		ForecastsComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "condo_forecast_forecasts_computed_total",
			Help: "Total number of forecast runs computed",
		}),
		ScenariosComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "condo_forecast_scenarios_computed_total",
			Help: "Total number of scenarios computed across all runs",
		}),
		ForecastDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "condo_forecast_forecast_duration_seconds",
			Help:    "Duration of forecast runs",
			Buckets: prometheus.DefBuckets,
		}),
		ForecastErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_forecast_forecast_errors_total",
				Help: "Total forecast requests rejected, by reason",
			},
			[]string{"reason"},
		),
		OptimizerIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "condo_forecast_optimizer_iterations",
			Help:    "Bisection iterations per break-even search",
			Buckets: []float64{0, 5, 10, 20, 40, 70, 100},
		}),

		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_forecast_cache_requests_total",
				Help: "Result cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveForecast records one computed forecast run.
func (m *Metrics) ObserveForecast(scenarios int, elapsed time.Duration) {
	m.ForecastsComputed.Inc()
	m.ScenariosComputed.Add(float64(scenarios))
	m.ForecastDuration.Observe(elapsed.Seconds())
}

// Middleware records HTTP metrics. Paths are labelled with the matched chi
// route pattern to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.HTTPInFlight.Inc()
		defer m.HTTPInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
