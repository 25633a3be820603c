package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the trading loop.
type Metrics struct {
	registry *prometheus.Registry

	ScanCycles   prometheus.Counter
	ScanDuration prometheus.Histogram
	Signals      *prometheus.CounterVec // labels: action
	Orders       *prometheus.CounterVec // labels: side, result
	SymbolErrors prometheus.Counter
	TradesToday  prometheus.Gauge
}

// New registers and returns all metrics on a private registry so tests
// can build independent instances.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ScanCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_scan_cycles_total",
			Help: "Total completed watchlist scan cycles",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bot_scan_duration_seconds",
			Help:    "Duration of one full watchlist scan",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		Signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_signals_total",
			Help: "Signals produced, by action",
		}, []string{"action"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders submitted, by side and result",
		}, []string{"side", "result"}),
		SymbolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_symbol_errors_total",
			Help: "Per-symbol scan errors that were skipped",
		}),
		TradesToday: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bot_trades_today",
			Help: "Buys executed since the last daily reset",
		}),
	}

	m.registry.MustRegister(
		m.ScanCycles,
		m.ScanDuration,
		m.Signals,
		m.Orders,
		m.SymbolErrors,
		m.TradesToday,
	)
	return m
}

// ObserveScan records one finished scan cycle.
func (m *Metrics) ObserveScan(start time.Time) {
	m.ScanCycles.Inc()
	m.ScanDuration.Observe(time.Since(start).Seconds())
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr. Blocks; intended for its own goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
