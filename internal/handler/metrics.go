package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "push_relay_token_registrations_total",
	Help: "Total number of successful push token registrations.",
})
