package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stream-push-relay/internal/models"
	"stream-push-relay/internal/registry"
	"stream-push-relay/internal/sender"
)

// DefaultRecipient is the registry key of the relay's single notification target.
const DefaultRecipient = "admin"

// Acknowledgment messages
const (
	MsgProcessed        = "Webhook processed"
	MsgNotificationSent = "Notification sent"
	MsgTestSent         = "Test notification sent"
	MsgAdminIgnored     = "Admin message ignored"
)

// Fixed notification texts
const (
	TestTitle        = "Test"
	TestBody         = "Webhook server is working"
	FallbackTitle    = "New Message"
	FallbackBody     = "You have a new message"
	dataKeyChannelID = "channelId"
	dataKeySenderID  = "senderId"
	dataKeyTest      = "test"
)

// Dispatch outcomes, used as metric labels
const (
	outcomeSent       = "sent"
	outcomeRejected   = "rejected"
	outcomeSendFailed = "send_failed"
	outcomeIgnored    = "ignored"
	outcomeSkipped    = "skipped"
)

var errNotConfigured = errors.New("dispatcher is not configured")

// Dispatcher maps a webhook event to at most one push send.
type Dispatcher struct {
	registry  registry.Registry
	sender    sender.Sender
	recipient string
	logger    *zap.Logger
}

// NewDispatcher creates a Dispatcher. recipient is the registry key whose token
// receives message notifications; an empty value means DefaultRecipient.
func NewDispatcher(reg registry.Registry, s sender.Sender, recipient string, logger *zap.Logger) *Dispatcher {
	if recipient == "" {
		recipient = DefaultRecipient
	}
	return &Dispatcher{
		registry:  reg,
		sender:    s,
		recipient: recipient,
		logger:    logger.Named("dispatcher"),
	}
}

// Dispatch handles one event. Push delivery failures are part of the returned
// acknowledgment; an error is returned only when the dispatcher itself is
// unusable.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.WebhookEvent) (models.WebhookResponse, error) {
	if d == nil || d.sender == nil || d.registry == nil {
		return models.WebhookResponse{}, errNotConfigured
	}

	log := d.logger.With(zap.String("type", string(event.Type)))
	log.Info("Webhook received")

	var (
		resp    models.WebhookResponse
		outcome string
	)
	switch event.Type {
	case models.EventTypeTest:
		resp, outcome = d.dispatchTest(ctx, event, log)
	case models.EventTypeMessageNew:
		resp, outcome = d.dispatchMessage(ctx, event, log)
	default:
		resp, outcome = processed(), outcomeSkipped
	}

	dispatchesTotal.WithLabelValues(eventLabel(event.Type), outcome).Inc()
	return resp, nil
}

func (d *Dispatcher) dispatchTest(ctx context.Context, event models.WebhookEvent, log *zap.Logger) (models.WebhookResponse, string) {
	if event.PushToken == "" {
		log.Debug("Test event without pushToken, nothing to send")
		return processed(), outcomeSkipped
	}
	msg := models.NewPushMessage(event.PushToken, TestTitle, TestBody, map[string]any{dataKeyTest: true})
	result := d.sender.Send(ctx, msg)
	return models.WebhookResponse{Success: true, Message: MsgTestSent, Result: &result}, sendOutcome(result)
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, event models.WebhookEvent, log *zap.Logger) (models.WebhookResponse, string) {
	// Отправитель сообщения сам является получателем уведомлений - не уведомляем его о собственном сообщении.
	if event.UserID == d.recipient {
		log.Info("Message from notification recipient ignored", zap.String("userID", event.UserID))
		return models.WebhookResponse{Success: true, Message: MsgAdminIgnored}, outcomeIgnored
	}

	token := d.resolveToken(ctx, event, log)
	if token == "" {
		log.Info("No push token resolved, notification skipped", zap.String("recipient", d.recipient))
		return processed(), outcomeSkipped
	}

	title := event.UserName
	if title == "" {
		title = FallbackTitle
	}
	body := event.Text
	if body == "" {
		body = FallbackBody
	}
	data := map[string]any{}
	if event.ChannelID != "" {
		data[dataKeyChannelID] = event.ChannelID
	}
	if event.UserID != "" {
		data[dataKeySenderID] = event.UserID
	}

	result := d.sender.Send(ctx, models.NewPushMessage(token, title, body, data))
	return models.WebhookResponse{Success: true, Message: MsgNotificationSent, Result: &result}, sendOutcome(result)
}

func sendOutcome(result models.SendResult) string {
	switch {
	case !result.OK():
		return outcomeSendFailed
	case result.Rejected():
		return outcomeRejected
	default:
		return outcomeSent
	}
}

// resolveToken prefers the inline token and falls back to the registry entry of
// the recipient. Registry failures count as a miss.
func (d *Dispatcher) resolveToken(ctx context.Context, event models.WebhookEvent, log *zap.Logger) string {
	if event.PushToken != "" {
		return event.PushToken
	}
	token, err := d.registry.Lookup(ctx, d.recipient)
	if err != nil {
		if !models.IsNotFound(err) {
			log.Error("Registry lookup failed, treating as miss", zap.Error(err), zap.String("recipient", d.recipient))
		}
		return ""
	}
	return token
}

func processed() models.WebhookResponse {
	return models.WebhookResponse{Success: true, Message: MsgProcessed}
}

// eventLabel bounds metric label cardinality to the known event types.
func eventLabel(t models.EventType) string {
	switch t {
	case models.EventTypeTest, models.EventTypeMessageNew:
		return string(t)
	default:
		return "other"
	}
}
