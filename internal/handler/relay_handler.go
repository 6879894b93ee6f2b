package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
	"stream-push-relay/internal/registry"
)

// maxBodyBytes ограничивает размер тела входящих запросов.
const maxBodyBytes = 10 << 20

// WebhookDispatcher обрабатывает разобранное событие вебхука.
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, event models.WebhookEvent) (models.WebhookResponse, error)
}

type RelayHandler struct {
	dispatcher  WebhookDispatcher
	registry    registry.Registry
	serviceName string
	platform    string
	endpoints   []string
	logger      *zap.Logger
}

func NewRelayHandler(dispatcher WebhookDispatcher, reg registry.Registry, serviceName, platform string, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{
		dispatcher:  dispatcher,
		registry:    reg,
		serviceName: serviceName,
		platform:    platform,
		endpoints:   append([]string(nil), relayEndpoints...),
		logger:      logger.Named("RelayHandler"),
	}
}

// relayEndpoints пути ретранслятора для баннера на GET /. NewRouter дополняет список
// опциональными эндпоинтами.
var relayEndpoints = []string{"/health", "/register-push-token", "/webhook/stream-chat", "/tokens"}

const metricsPath = "/metrics"

func (h *RelayHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)
	router.POST("/register-push-token", h.registerPushToken)
	router.POST("/webhook/stream-chat", h.streamChatWebhook)
	router.GET("/tokens", h.listTokens)
}

// readBody читает тело запроса с ограничением размера.
func readBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	return c.GetRawData()
}
