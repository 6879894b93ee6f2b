package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
	"stream-push-relay/internal/registry"
)

type fixedSender struct {
	result models.SendResult
}

func (f fixedSender) Send(context.Context, models.PushMessage) models.SendResult {
	return f.result
}

func rejectedResult() models.SendResult {
	r := models.SendSuccess(map[string]any{"errors": []any{"DeviceNotRegistered"}})
	r.HTTPStatus = 400
	return r
}

func TestDispatch_OutcomeMetrics(t *testing.T) {
	tests := []struct {
		name      string
		result    models.SendResult
		event     models.WebhookEvent
		eventType string
		outcome   string
	}{
		{
			name:      "sent",
			result:    models.SendSuccess(nil),
			event:     models.WebhookEvent{Type: models.EventTypeMessageNew, UserID: "u1", PushToken: "tok"},
			eventType: "message.new",
			outcome:   outcomeSent,
		},
		{
			name:      "rejected by provider",
			result:    rejectedResult(),
			event:     models.WebhookEvent{Type: models.EventTypeTest, PushToken: "tok"},
			eventType: "test",
			outcome:   outcomeRejected,
		},
		{
			name:      "send failed",
			result:    models.SendFailure(errors.New("timeout")),
			event:     models.WebhookEvent{Type: models.EventTypeMessageNew, UserID: "u1", PushToken: "tok"},
			eventType: "message.new",
			outcome:   outcomeSendFailed,
		},
		{
			name:      "recipient message ignored",
			event:     models.WebhookEvent{Type: models.EventTypeMessageNew, UserID: "support", PushToken: "tok"},
			eventType: "message.new",
			outcome:   outcomeIgnored,
		},
		{
			name:      "no token",
			event:     models.WebhookEvent{Type: models.EventTypeMessageNew, UserID: "u1"},
			eventType: "message.new",
			outcome:   outcomeSkipped,
		},
		{
			name:      "unknown type",
			event:     models.WebhookEvent{Type: "reaction.new", PushToken: "tok"},
			eventType: "other",
			outcome:   outcomeSkipped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(registry.NewMemory(), fixedSender{result: tt.result}, "support", zap.NewNop())
			counter := dispatchesTotal.WithLabelValues(tt.eventType, tt.outcome)
			before := testutil.ToFloat64(counter)

			_, err := d.Dispatch(context.Background(), tt.event)
			require.NoError(t, err)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}
