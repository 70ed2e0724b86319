package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

var fetchPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Namespace: "threestar",
	Subsystem: "fetcher",
	Name:      "pages_total",
	Help:      "Result pages requested by outcome.",
}, []string{"outcome"})
