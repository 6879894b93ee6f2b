package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

// DefaultRedisHashKey is the hash holding userId -> token fields.
const DefaultRedisHashKey = "push_tokens"

// Compile-time check to ensure redisRegistry implements Registry
var _ Registry = (*redisRegistry)(nil)

type redisRegistry struct {
	client  redis.UniversalClient
	hashKey string
	logger  *zap.Logger
}

// NewRedis creates a Redis-backed Registry. All entries live in a single hash,
// so several relay replicas can share one token map.
func NewRedis(client redis.UniversalClient, hashKey string, logger *zap.Logger) Registry {
	if hashKey == "" {
		hashKey = DefaultRedisHashKey
	}
	return &redisRegistry{
		client:  client,
		hashKey: hashKey,
		logger:  logger.Named("RedisRegistry"),
	}
}

func (r *redisRegistry) Register(ctx context.Context, userID, token string) error {
	userID, token, err := validate(userID, token)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.hashKey, userID, token).Err(); err != nil {
		r.logger.Error("Failed to store push token in redis", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("failed to store push token in redis: %w", err)
	}
	r.logger.Debug("Push token stored in redis",
		zap.String("userID", userID),
		zap.String("tokenPreview", models.RedactToken(token)),
	)
	return nil
}

func (r *redisRegistry) Lookup(ctx context.Context, userID string) (string, error) {
	token, err := r.client.HGet(ctx, r.hashKey, userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get push token from redis", zap.Error(err), zap.String("userID", userID))
		return "", fmt.Errorf("failed to get push token from redis: %w", err)
	}
	return token, nil
}

func (r *redisRegistry) List(ctx context.Context) ([]models.TokenPreview, error) {
	entries, err := r.client.HGetAll(ctx, r.hashKey).Result()
	if err != nil {
		r.logger.Error("Failed to list push tokens from redis", zap.Error(err))
		return nil, fmt.Errorf("failed to list push tokens from redis: %w", err)
	}
	return previews(entries), nil
}

func (r *redisRegistry) Count(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, r.hashKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count push tokens in redis: %w", err)
	}
	return int(n), nil
}
