package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inbound",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "inbound",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	DashboardCompute = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "inbound",
		Name:      "dashboard_compute_seconds",
		Help:      "Time spent recomputing the dashboard from a snapshot.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	StoreOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "inbound",
		Name:      "store_remote_online",
		Help:      "1 when the remote store serves requests, 0 when the local cache does.",
	})

	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inbound",
		Name:      "import_rows_total",
		Help:      "Imported rows by record kind and outcome.",
	}, []string{"kind", "outcome"})

	RecordMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inbound",
		Name:      "record_mutations_total",
		Help:      "Record store mutations by kind and operation.",
	}, []string{"kind", "op"})

	VasTasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "inbound",
		Name:      "vas_tasks",
		Help:      "In-flight VAS tasks by state.",
	}, []string{"state"})
)

// SetStoreOnline records the active store backend.
func SetStoreOnline(online bool) {
	if online {
		StoreOnline.Set(1)
		return
	}
	StoreOnline.Set(0)
}
