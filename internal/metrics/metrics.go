package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SolvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arb_solves_total", Help: "Stake computations by mode and status"},
		[]string{"mode", "status"},
	)
	SolveErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arb_solve_errors_total", Help: "Rejected requests by source"},
		[]string{"source"},
	)
	SolveIterations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "arb_solve_iterations", Help: "Fixed-point iterations per solve", Buckets: prometheus.ExponentialBuckets(1, 2, 11)},
		[]string{"mode"},
	)
	CacheHitsTotal   = prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_cache_hits_total", Help: "Solve responses served from cache"})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_cache_misses_total", Help: "Solve responses computed on a cache miss"})
	CacheErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_cache_errors_total", Help: "Cache read or write failures"})
	SessionsActive   = prometheus.NewGauge(prometheus.GaugeOpts{Name: "arb_ws_sessions_active", Help: "Open live calculator sessions"})
)

// Init registers all collectors on a fresh registry
func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		SolvesTotal, SolveErrorsTotal, SolveIterations,
		CacheHitsTotal, CacheMissesTotal, CacheErrorsTotal,
		SessionsActive,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		if err := reg.Register(c); err != nil {
			logger.Warn().Err(err).Msg("metrics register failed")
		}
	}
	return reg
}

// Handler serves the registry in the Prometheus text format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveSolve records one completed computation
func ObserveSolve(mode, status string, iterations int) {
	SolvesTotal.WithLabelValues(mode, status).Inc()
	if iterations > 0 {
		SolveIterations.WithLabelValues(mode).Observe(float64(iterations))
	}
}
