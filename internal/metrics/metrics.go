package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rsiboard"

// Recorder holds the dashboard's Prometheus collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runDuration    prometheus.Histogram
	coinsTotal     *prometheus.CounterVec
	resolvedTotal  *prometheus.CounterVec
	exchangeErrors *prometheus.CounterVec
	cacheRefreshes *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates a recorder on its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Duration of a full pipeline run in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}),
		coinsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_coins_total",
			Help:      "Coins processed by the pipeline, by result",
		}, []string{"result"}),
		resolvedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_resolved_total",
			Help:      "Coins resolved to a market, by exchange",
		}, []string{"exchange"}),
		exchangeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_errors_total",
			Help:      "Exchange request failures, by exchange and operation",
		}, []string{"exchange", "op"}),
		cacheRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_refreshes_total",
			Help:      "Signal cache refreshes, by result",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"route", "method"}),
	}
}

// ObserveRun records the duration of one pipeline run.
func (r *Recorder) ObserveRun(d time.Duration) {
	if r == nil {
		return
	}
	r.runDuration.Observe(d.Seconds())
}

// CoinProcessed counts one coin record.
func (r *Recorder) CoinProcessed(ok bool) {
	if r == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	r.coinsTotal.WithLabelValues(result).Inc()
}

// Resolved counts a coin resolved on exchange.
func (r *Recorder) Resolved(exchange string) {
	if r == nil {
		return
	}
	r.resolvedTotal.WithLabelValues(exchange).Inc()
}

// ExchangeError counts a failed exchange operation (markets, ticker, ohlcv).
func (r *Recorder) ExchangeError(exchange, op string) {
	if r == nil {
		return
	}
	r.exchangeErrors.WithLabelValues(exchange, op).Inc()
}

// CacheRefresh counts one cache refresh.
func (r *Recorder) CacheRefresh(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.cacheRefreshes.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
