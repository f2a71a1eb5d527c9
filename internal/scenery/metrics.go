package scenery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	objectsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scenery_objects",
		Help: "The number of live scenery objects.",
	})

	removedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scenery_removed",
		Help: "The number of scenery objects removed, by cause.",
	}, []string{
		"cause",
	})
)

const (
	causeRemoved   = "removed"
	causeMowed     = "mowed"
	causeDestroyed = "destroyed"
)

func instrumentRemoved(cause string) {
	removedCounter.WithLabelValues(cause).Inc()
}
