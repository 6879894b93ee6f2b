package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"stream-push-relay/internal/middleware"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Content-Type"}
)

type RouterOptions struct {
	// Metrics включает gin-метрики и эндпоинт /metrics.
	// Коллекторы регистрируются в глобальном реестре prometheus, поэтому включать один раз на процесс.
	Metrics bool
}

// NewRouter собирает gin.Engine: логирование, recovery, CORS, метрики и маршруты ретранслятора.
func NewRouter(h *RelayHandler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddlewareForGin(logger))
	router.Use(middleware.Recovery(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = corsMethods
	corsConfig.AllowHeaders = corsHeaders
	corsConfig.OptionsResponseStatusCode = http.StatusOK
	router.Use(cors.New(corsConfig))

	if opts.Metrics {
		p := ginprometheus.NewPrometheus("gin")
		p.MetricsPath = metricsPath
		p.Use(router)
		h.endpoints = append(h.endpoints, metricsPath)
	}

	// Preflight без Origin cors-middleware пропускает дальше, отвечаем 200 для любого пути.
	router.OPTIONS("/*path", preflight)

	h.RegisterRoutes(router)
	return router
}

func preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusOK)
}
