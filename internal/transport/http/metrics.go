package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
)

var (
	entriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_entries_total",
		Help: "Vehicle entry requests by outcome",
	}, []string{"outcome"})

	exitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_exits_total",
		Help: "Vehicle exit requests by outcome",
	}, []string{"outcome"})
)
