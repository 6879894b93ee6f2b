package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

// @Summary Баннер сервиса
// @Produce json
// @Success 200 {object} models.RootResponse
// @Router / [get]
func (h *RelayHandler) root(c *gin.Context) {
	c.JSON(http.StatusOK, models.RootResponse{
		Message:   h.serviceName,
		Status:    "running",
		Endpoints: h.endpoints,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// @Summary Проверка состояния
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *RelayHandler) health(c *gin.Context) {
	resp := models.HealthResponse{
		Status:    "healthy",
		Service:   h.serviceName,
		Platform:  h.platform,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	// Недоступность реестра не делает сервис нездоровым, просто не показываем счетчик.
	if count, err := h.registry.Count(c.Request.Context()); err != nil {
		h.logger.Warn("Failed to count registered tokens", zap.Error(err))
	} else {
		resp.RegisteredTokens = &count
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Регистрация push-токена
// @Accept json
// @Produce json
// @Param request body models.RegisterPushTokenInput true "userId и pushToken"
// @Success 200 {object} models.RegisterTokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /register-push-token [post]
func (h *RelayHandler) registerPushToken(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	input, err := models.ParseRegisterPushTokenInput(body)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := input.Validate(); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.registry.Register(c.Request.Context(), input.UserID, input.PushToken); err != nil {
		h.logger.Error("Failed to register push token", zap.String("userID", input.UserID), zap.Error(err))
		handleServiceError(c, err)
		return
	}
	registrationsTotal.Inc()

	h.logger.Info("Push token registered",
		zap.String("userID", input.UserID),
		zap.String("tokenPreview", models.RedactToken(input.PushToken)),
	)
	c.JSON(http.StatusOK, models.RegisterTokenResponse{Success: true, Message: "Token registered successfully"})
}

// @Summary Вебхук Stream Chat
// @Accept json
// @Produce json
// @Success 200 {object} models.WebhookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /webhook/stream-chat [post]
func (h *RelayHandler) streamChatWebhook(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	event, err := models.ParseWebhookEvent(body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp, err := h.dispatcher.Dispatch(c.Request.Context(), event)
	if err != nil {
		h.logger.Error("Webhook dispatch failed", zap.String("type", string(event.Type)), zap.Error(err))
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Список зарегистрированных токенов (замаскированных)
// @Produce json
// @Success 200 {object} models.TokenListResponse
// @Router /tokens [get]
func (h *RelayHandler) listTokens(c *gin.Context) {
	tokens, err := h.registry.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list push tokens", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TokenListResponse{Tokens: tokens, Count: len(tokens)})
}
