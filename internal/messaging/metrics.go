package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "push_relay_queue_messages_total",
		Help: "Total number of consumed queue messages by status.",
	},
	[]string{"status"},
)

var reconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "push_relay_queue_reconnects_total",
	Help: "Total number of RabbitMQ reconnects after the delivery channel was closed.",
})
