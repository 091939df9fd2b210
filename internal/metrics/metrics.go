// Package metrics defines the Prometheus collectors of the viewer and the
// handler that exposes them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NearbyQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiviewer_nearby_queries_total",
		Help: "Total number of proximity queries",
	})
	NearbyResultSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "poiviewer_nearby_result_size",
		Help:    "Number of POIs returned per proximity query",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	ViewTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poiviewer_view_transitions_total",
		Help: "Completed view transitions by source and target view",
	}, []string{"from", "to"})
	AREntryRefusedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poiviewer_ar_entry_refused_total",
		Help: "AR entries that did not complete, by reason",
	}, []string{"reason"})
	SceneReadyTimeoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiviewer_scene_ready_timeouts_total",
		Help: "AR scene initializations that hit the ready timeout",
	})
	LocationSamplesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiviewer_location_samples_total",
		Help: "Accepted device location samples",
	})
	LocationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiviewer_location_errors_total",
		Help: "Device location failures reported to a running subscription",
	})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "poiviewer_active_sessions",
		Help: "Viewer sessions currently held in memory",
	})
)

func init() {
	prometheus.MustRegister(NearbyQueriesTotal)
	prometheus.MustRegister(NearbyResultSize)
	prometheus.MustRegister(ViewTransitionsTotal)
	prometheus.MustRegister(AREntryRefusedTotal)
	prometheus.MustRegister(SceneReadyTimeoutsTotal)
	prometheus.MustRegister(LocationSamplesTotal)
	prometheus.MustRegister(LocationErrorsTotal)
	prometheus.MustRegister(ActiveSessions)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler { return promhttp.Handler() }
