package sender

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	"go.uber.org/zap"

	"stream-push-relay/internal/config"
	"stream-push-relay/internal/models"
)

// Compile-time check
var _ Sender = (*apnsSender)(nil)

type apnsSender struct {
	client *apns2.Client
	logger *zap.Logger
	topic  string
}

// NewApnsSender создает отправителя APNS с авторизацией по токену.
// Требует KeyPath, KeyID, TeamID, Topic в cfg.
func NewApnsSender(cfg config.APNSConfig, logger *zap.Logger) (Sender, error) {
	if cfg.KeyPath == "" || cfg.KeyID == "" || cfg.TeamID == "" || cfg.Topic == "" {
		return nil, fmt.Errorf("APNS конфигурация не полная (APNS_KEY_PATH, APNS_KEY_ID, APNS_TEAM_ID, APNS_TOPIC)")
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключа APNS из файла %s: %w", cfg.KeyPath, err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	logger.Info("APNS Sender успешно инициализирован",
		zap.String("key_id", cfg.KeyID),
		zap.String("team_id", cfg.TeamID),
		zap.String("topic", cfg.Topic),
		zap.Bool("production", cfg.Production),
	)
	return newApnsSender(client, cfg.Topic, logger), nil
}

func newApnsSender(client *apns2.Client, topic string, logger *zap.Logger) *apnsSender {
	return &apnsSender{
		client: client,
		logger: logger.Named("apns_sender"),
		topic:  topic,
	}
}

func (s *apnsSender) Send(ctx context.Context, msg models.PushMessage) models.SendResult {
	log := s.logger.With(zap.String("tokenPreview", models.RedactToken(msg.To)))

	notification := &apns2.Notification{
		DeviceToken: msg.To,
		Topic:       s.topic,
		Payload:     buildAPNSPayload(msg),
		Priority:    apns2.PriorityHigh,
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		log.Error("Ошибка вызова APNS PushWithContext", zap.Error(err))
		return models.SendFailure(fmt.Errorf("apns send error: %w", err))
	}

	if !res.Sent() {
		log.Warn("APNS уведомление не отправлено (ответ от сервера)",
			zap.Int("status_code", res.StatusCode),
			zap.String("apns_id", res.ApnsID),
			zap.String("reason", res.Reason),
		)
		return models.SendResult{
			Receipt: map[string]any{"statusCode": res.StatusCode},
			Error:   fmt.Sprintf("apns delivery failed: %s", res.Reason),
		}
	}

	log.Info("APNS уведомление успешно отправлено", zap.String("apns_id", res.ApnsID))
	return models.SendSuccess(map[string]any{
		"apnsId":     res.ApnsID,
		"statusCode": res.StatusCode,
	})
}

func buildAPNSPayload(msg models.PushMessage) *payload.Payload {
	p := payload.NewPayload().
		AlertTitle(msg.Title).
		AlertBody(msg.Body).
		Sound(msg.Sound).
		Badge(msg.Badge)
	// Кастомные данные кладем на верхний уровень payload, не в aps
	for k, v := range msg.Data {
		p.Custom(k, v)
	}
	return p
}
