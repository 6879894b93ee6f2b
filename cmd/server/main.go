package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stream-push-relay/internal/config"
	"stream-push-relay/internal/handler"
	"stream-push-relay/internal/logger"
	"stream-push-relay/internal/messaging"
	"stream-push-relay/internal/registry"
	"stream-push-relay/internal/sender"
	"stream-push-relay/internal/service"
)

const (
	connectRetries    = 50
	connectRetryDelay = 3 * time.Second
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env", "config.yml")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.OutputPath,
		Service:    cfg.ServiceName,
		Platform:   cfg.Platform,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("pushProvider", cfg.Push.Provider),
		zap.String("registryBackend", cfg.Registry.Backend),
		zap.String("notifyRecipient", cfg.NotifyRecipient),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Token Registry ---
	var tokenRegistry registry.Registry
	switch cfg.Registry.Backend {
	case config.BackendRedis:
		redisClient, err := setupRedis(ctx, cfg)
		if err != nil {
			zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		tokenRegistry = registry.NewRedis(redisClient, cfg.Redis.HashKey, log)
	default:
		tokenRegistry = registry.NewMemory()
		zap.L().Info("Using in-memory token registry, tokens are lost on restart")
	}

	// --- Push Sender ---
	pushSender, err := sender.New(ctx, cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to create push sender", zap.String("provider", cfg.Push.Provider), zap.Error(err))
	}

	dispatcher := service.NewDispatcher(tokenRegistry, pushSender, cfg.NotifyRecipient, log)

	// --- Queue Ingress (optional) ---
	var consumer *messaging.Consumer
	consumerDone := make(chan struct{})
	if cfg.RabbitMQ.URI != "" {
		dial := func() (*amqp.Connection, error) {
			return messaging.Dial(cfg.RabbitMQ.URI, connectRetries, connectRetryDelay, log)
		}
		mqConn, err := dial()
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}

		processor := messaging.NewProcessor(log, dispatcher)
		consumer = messaging.NewConsumer(mqConn, dial, log, cfg.RabbitMQ.EventQueueName, cfg.RabbitMQ.WorkerConcurrency, processor)
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(); err != nil {
				zap.L().Error("Event consumer stopped with error, queue ingress is disabled", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	relayHandler := handler.NewRelayHandler(dispatcher, tokenRegistry, cfg.ServiceName, cfg.Platform, log)
	router := handler.NewRouter(relayHandler, log, handler.RouterOptions{Metrics: cfg.MetricsEnabled})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Push.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zap.L().Info("Shutting down server...", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Сначала прекращаем чтение очереди и дожидаемся начатых отправок.
	if consumer != nil {
		consumer.Stop()
	}
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		zap.L().Warn("Event consumer did not stop in time")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupRedis создает клиента Redis и ждет успешного PING.
func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	zap.L().Info("Attempting to connect and ping Redis",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Int("max_retries", connectRetries),
	)

	var lastErr error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		client := redis.NewClient(opts)

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := client.Ping(pingCtx).Result()
		pingCancel()
		if err == nil {
			zap.L().Info("Successfully connected and pinged Redis", zap.Int("attempt", attempt))
			return client, nil
		}

		client.Close()
		lastErr = err
		zap.L().Warn("Redis ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < connectRetries {
			time.Sleep(connectRetryDelay)
		}
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", connectRetries, lastErr)
}
