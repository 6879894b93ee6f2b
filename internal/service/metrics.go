package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "push_relay_dispatches_total",
		Help: "Total number of dispatched webhook events by event type and outcome.",
	},
	[]string{"type", "outcome"},
)
