package sender

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fcm "firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"stream-push-relay/internal/config"
	"stream-push-relay/internal/models"
)

// fcmClient is the subset of *messaging.Client used by the sender.
type fcmClient interface {
	Send(ctx context.Context, message *fcm.Message) (string, error)
}

// Compile-time check
var _ Sender = (*fcmSender)(nil)

type fcmSender struct {
	client fcmClient
	logger *zap.Logger
}

// NewFCMSender создает отправителя FCM.
// Требует путь к файлу ключа сервис-аккаунта Firebase в cfg.CredentialsPath.
func NewFCMSender(ctx context.Context, cfg config.FCMConfig, logger *zap.Logger) (Sender, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FCM_CREDENTIALS_PATH is required for the fcm push provider")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Firebase App из файла '%s': %w", cfg.CredentialsPath, err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения FCM Messaging client: %w", err)
	}

	logger.Info("FCM Sender успешно инициализирован", zap.String("credentials_path", cfg.CredentialsPath))
	return newFCMSender(client, logger), nil
}

func newFCMSender(client fcmClient, logger *zap.Logger) *fcmSender {
	return &fcmSender{
		client: client,
		logger: logger.Named("fcm_sender"),
	}
}

func (s *fcmSender) Send(ctx context.Context, msg models.PushMessage) models.SendResult {
	log := s.logger.With(zap.String("tokenPreview", models.RedactToken(msg.To)))

	messageID, err := s.client.Send(ctx, buildFCMMessage(msg))
	if err != nil {
		if fcm.IsUnregistered(err) || fcm.IsInvalidArgument(err) || fcm.IsSenderIDMismatch(err) {
			log.Warn("Обнаружен невалидный/незарегистрированный FCM токен", zap.Error(err))
		} else {
			log.Error("Ошибка отправки FCM", zap.Error(err))
		}
		return models.SendFailure(fmt.Errorf("fcm send failed: %w", err))
	}

	log.Info("FCM message sent", zap.String("message_id", messageID))
	return models.SendSuccess(map[string]any{"messageId": messageID})
}

func buildFCMMessage(msg models.PushMessage) *fcm.Message {
	badge := msg.Badge
	return &fcm.Message{
		Token: msg.To,
		Notification: &fcm.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: stringifyData(msg.Data),
		Android: &fcm.AndroidConfig{
			Priority: msg.Priority,
			Notification: &fcm.AndroidNotification{
				Sound:             msg.Sound,
				NotificationCount: &badge,
			},
		},
		APNS: &fcm.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &fcm.APNSPayload{
				Aps: &fcm.Aps{
					Badge: &badge,
					Sound: msg.Sound,
				},
			},
		},
	}
}

// stringifyData converts the auxiliary payload to the string map FCM requires.
// Non-string values are JSON-encoded.
func stringifyData(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			out[k] = val
		default:
			encoded, err := json.Marshal(val)
			if err != nil {
				out[k] = fmt.Sprint(val)
				continue
			}
			out[k] = string(encoded)
		}
	}
	return out
}
