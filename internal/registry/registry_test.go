package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

var ctx = context.Background()

func newMiniredisRegistry(t *testing.T) Registry {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "", zap.NewNop())
}

func registries(t *testing.T) map[string]Registry {
	return map[string]Registry{
		"memory": NewMemory(),
		"redis":  newMiniredisRegistry(t),
	}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, reg.Register(ctx, "admin", "ExponentPushToken[first]"))
			token, err := reg.Lookup(ctx, "admin")
			require.NoError(t, err)
			assert.Equal(t, "ExponentPushToken[first]", token)

			// overwrite
			require.NoError(t, reg.Register(ctx, "admin", "ExponentPushToken[second]"))
			token, err = reg.Lookup(ctx, "admin")
			require.NoError(t, err)
			assert.Equal(t, "ExponentPushToken[second]", token)

			n, err := reg.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestRegistry_LookupMiss(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Lookup(ctx, "nobody")
			assert.ErrorIs(t, err, models.ErrTokenNotFound)
		})
	}
}

func TestRegistry_RegisterMissingFields(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, reg.Register(ctx, "", "tok"), models.ErrMissingTokenFields)
			assert.ErrorIs(t, reg.Register(ctx, "u1", ""), models.ErrMissingTokenFields)
			assert.ErrorIs(t, reg.Register(ctx, " ", " "), models.ErrMissingTokenFields)

			n, err := reg.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n, "failed registration must not mutate the registry")
		})
	}
}

func TestRegistry_ListRedactsTokens(t *testing.T) {
	tokens := map[string]string{
		"admin": "ExponentPushToken[aaaaaaaaaaaaaaaaaaaaaa]",
		"bob":   "ExponentPushToken[bbbbbbbbbbbbbbbbbbbbbb]",
		"carol": "short-token",
	}
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			for userID, token := range tokens {
				require.NoError(t, reg.Register(ctx, userID, token))
			}

			list, err := reg.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)

			assert.Equal(t, "admin", list[0].UserID)
			assert.Equal(t, "bob", list[1].UserID)
			assert.Equal(t, "carol", list[2].UserID)
			for _, entry := range list {
				raw := tokens[entry.UserID]
				assert.NotContains(t, entry.TokenPreview, raw)
				assert.Equal(t, models.RedactToken(raw), entry.TokenPreview)
			}
		})
	}
}

func TestMemoryRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(ctx, fmt.Sprintf("user-%d", i), fmt.Sprintf("token-%d", i))
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = reg.Lookup(ctx, fmt.Sprintf("user-%d", i))
			_, _ = reg.List(ctx)
		}(i)
	}
	wg.Wait()

	n, err := reg.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestRedisRegistry_StoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	reg := NewRedis(client, "tokens", zap.NewNop())

	mr.Close()

	err := reg.Register(ctx, "admin", "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrMissingTokenFields)

	_, err = reg.Lookup(ctx, "admin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrTokenNotFound)
}
