package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "threestar",
	Subsystem: "predictor",
	Name:      "sets_total",
	Help:      "Generated prediction sets by mode.",
}, []string{"mode"})
