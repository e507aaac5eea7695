package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RowsProcessed  *prometheus.CounterVec
	APIErrors      prometheus.Counter
	Fallbacks      prometheus.Counter
	RequestSeconds *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RowsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "venues_rows_processed_total",
			Help: "Total number of processed venue rows, by resolution status.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "venue_provider_api_errors_total",
			Help: "Total number of provider calls that resolved as absent.",
		}),
		Fallbacks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "venue_provider_fallback_total",
			Help: "Total number of resolutions that consulted the secondary provider.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "venue_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider APIs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "venues_active_workers",
			Help: "Current number of active workers resolving rows.",
		}),
	}
}
