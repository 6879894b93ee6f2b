package sender

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

var (
	sendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_relay_sends_total",
			Help: "Total number of push send attempts by provider and status (success, rejected, failure).",
		},
		[]string{"provider", "status"},
	)

	sendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "push_relay_send_duration_seconds",
			Help:    "Duration of push send attempts.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

type instrumented struct {
	next     Sender
	provider string
	logger   *zap.Logger
}

// Instrumented wraps next with send metrics and failure logging.
func Instrumented(next Sender, provider string, logger *zap.Logger) Sender {
	return &instrumented{
		next:     next,
		provider: provider,
		logger:   logger.Named("sender").With(zap.String("provider", provider)),
	}
}

func (s *instrumented) Send(ctx context.Context, msg models.PushMessage) models.SendResult {
	start := time.Now()
	result := s.next.Send(ctx, msg)
	sendDuration.WithLabelValues(s.provider).Observe(time.Since(start).Seconds())

	status := "success"
	switch {
	case !result.OK():
		status = "failure"
		s.logger.Warn("Push send failed", zap.String("error", result.Error))
	case result.Rejected():
		status = "rejected"
		s.logger.Warn("Push request rejected by provider", zap.Int("status_code", result.HTTPStatus))
	}
	sendsTotal.WithLabelValues(s.provider, status).Inc()
	return result
}
