package sender

import (
	"context"

	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

// --- Заглушка для локальной разработки ---

type stubSender struct {
	logger *zap.Logger
}

// NewStubSender returns a Sender that only logs messages.
func NewStubSender(logger *zap.Logger) Sender {
	return &stubSender{logger: logger.Named("stub_sender")}
}

func (s *stubSender) Send(_ context.Context, msg models.PushMessage) models.SendResult {
	s.logger.Info("ЗАГЛУШКА: Отправка push-уведомления",
		zap.String("tokenPreview", models.RedactToken(msg.To)),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Any("data", msg.Data),
	)
	return models.SendSuccess(map[string]any{"status": "stubbed"})
}
