package collision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	worldLabel = "world"
	kindLabel  = "kind"

	queryRaycast       = "raycast"
	queryRaycastAll    = "raycast_all"
	querySphereCast    = "spherecast"
	querySphereCastAll = "spherecast_all"
	querySlide         = "slide"
	queryOverlap       = "overlap_sphere"
)

var (
	collidersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "collision_colliders",
		Help: "The number of live colliders.",
	}, []string{
		worldLabel,
	})

	queriesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_queries",
		Help: "The number of queries run against a world.",
	}, []string{
		worldLabel,
		kindLabel,
	})

	droppedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_index_dropped",
		Help: "The number of colliders that did not fit the spatial index.",
	}, []string{
		worldLabel,
	})

	candidatesHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collision_query_candidates",
		Help:    "The number of candidates returned by the spatial index per query.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{
		worldLabel,
	})
)

func (w *World) instrumentQuery(kind string) {
	queriesCounter.With(prometheus.Labels{
		worldLabel: w.conf.Name,
		kindLabel:  kind,
	}).Inc()
}

func (w *World) instrumentCandidates(n int) {
	candidatesHistogram.With(prometheus.Labels{
		worldLabel: w.conf.Name,
	}).Observe(float64(n))
}

// instrumentColliders adds delta so worlds sharing a name sum up.
func (w *World) instrumentColliders(delta int) {
	collidersGauge.With(prometheus.Labels{
		worldLabel: w.conf.Name,
	}).Add(float64(delta))
}

func (w *World) instrumentDropped() {
	droppedCounter.With(prometheus.Labels{
		worldLabel: w.conf.Name,
	}).Inc()
}
