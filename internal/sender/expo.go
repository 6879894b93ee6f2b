package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

// DefaultExpoURL is the Expo push API send endpoint.
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// maxReceiptSize bounds how much of the Expo response body is read.
const maxReceiptSize = 1 << 20

// Compile-time check
var _ Sender = (*expoSender)(nil)

type expoSender struct {
	client      HTTPClient
	url         string
	accessToken string
	logger      *zap.Logger
}

// NewExpoSender создает отправителя через Expo push API.
func NewExpoSender(client HTTPClient, url, accessToken string, logger *zap.Logger) Sender {
	if url == "" {
		url = DefaultExpoURL
	}
	return &expoSender{
		client:      client,
		url:         url,
		accessToken: accessToken,
		logger:      logger.Named("expo_sender"),
	}
}

func (s *expoSender) Send(ctx context.Context, msg models.PushMessage) models.SendResult {
	log := s.logger.With(zap.String("tokenPreview", models.RedactToken(msg.To)))

	body, err := json.Marshal(msg)
	if err != nil {
		log.Error("Ошибка сериализации push-сообщения", zap.Error(err))
		return models.SendFailure(fmt.Errorf("encode push message: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		log.Error("Ошибка создания HTTP запроса к Expo", zap.Error(err))
		return models.SendFailure(fmt.Errorf("create expo request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}

	log.Debug("Sending push notification", zap.String("url", s.url))
	start := time.Now()
	resp, err := s.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Error("Push notification request failed", zap.Error(err), zap.Duration("duration", duration))
		return models.SendFailure(fmt.Errorf("expo request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReceiptSize))
	if err != nil {
		log.Error("Failed to read Expo response", zap.Error(err), zap.Int("status_code", resp.StatusCode))
		return models.SendFailure(fmt.Errorf("read expo response: %w", err))
	}

	var receipt map[string]any
	if err := json.Unmarshal(raw, &receipt); err != nil {
		log.Error("Failed to decode Expo response",
			zap.Error(err),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return models.SendFailure(fmt.Errorf("decode expo response (status %d): %w", resp.StatusCode, err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// Expo reports request-level errors in the body; the receipt is returned as-is.
		log.Warn("Expo returned error status", zap.Int("status_code", resp.StatusCode), zap.Any("receipt", receipt))
	} else {
		log.Info("Push notification result", zap.Int("status_code", resp.StatusCode), zap.Duration("duration", duration), zap.Any("receipt", receipt))
	}
	result := models.SendSuccess(receipt)
	result.HTTPStatus = resp.StatusCode
	return result
}
