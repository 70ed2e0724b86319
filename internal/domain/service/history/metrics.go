package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK          = "ok"
	statusNoData      = "no_data"
	statusFetchFailed = "fetch_failed"
	statusError       = "error"
)

//nolint:gochecknoglobals
var (
	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "threestar",
		Subsystem: "history",
		Name:      "updates_total",
		Help:      "History update attempts by outcome.",
	}, []string{"status"})

	addedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "threestar",
		Subsystem: "history",
		Name:      "added_total",
		Help:      "Draws added to history by updates.",
	})
)
