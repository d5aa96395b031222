package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hfrat_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard service.
type Metrics struct {
	PollsTotal      *prometheus.CounterVec // labels: outcome={success,error}
	PollDuration    prometheus.Histogram
	PollerRunning   prometheus.Gauge
	ReportsFetched  prometheus.Gauge
	CriticalReports prometheus.Gauge
	StaleSnapshots  prometheus.Counter
	SinkErrors      *prometheus.CounterVec // labels: sink

	// Reporting API client metrics.
	APIRequests        *prometheus.CounterVec   // labels: operation, outcome={success,error,http_4xx,http_5xx}
	APIRequestDuration *prometheus.HistogramVec // labels: operation
	TrendCache         *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollsTotal,
		m.PollDuration,
		m.PollerRunning,
		m.ReportsFetched,
		m.CriticalReports,
		m.StaleSnapshots,
		m.SinkErrors,
		m.APIRequests,
		m.APIRequestDuration,
		m.TrendCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewUnregisteredMetrics creates Metrics that no registry exports, for
// short-lived processes such as the CLI.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Dashboard poll cycles by outcome.",
		}, []string{"outcome"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a fetch-derive-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "poller_running",
			Help:      "1 when the poller is active, 0 when shut down.",
		}),
		ReportsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reports_fetched",
			Help:      "Number of facility reports in the latest snapshot.",
		}),
		CriticalReports: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "critical_facilities",
			Help:      "Number of CRITICAL facilities in the latest snapshot.",
		}),
		StaleSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_snapshots_total",
			Help:      "Snapshots discarded because a newer fetch had already been published.",
		}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Snapshot delivery failures by sink.",
		}, []string{"sink"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Reporting API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Reporting API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		TrendCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trend_cache_total",
			Help:      "Facility trend cache lookups by result.",
		}, []string{"result"}),
	}
}
