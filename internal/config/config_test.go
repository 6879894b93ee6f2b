package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "admin", cfg.NotifyRecipient)
	assert.Equal(t, ProviderExpo, cfg.Push.Provider)
	assert.Equal(t, "https://exp.host/--/api/v2/push/send", cfg.Push.ExpoURL)
	assert.Equal(t, 10*time.Second, cfg.Push.HTTPTimeout)
	assert.Equal(t, BackendMemory, cfg.Registry.Backend)
	assert.Equal(t, "push_tokens", cfg.Redis.HashKey)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.RabbitMQ.URI)
	assert.Empty(t, cfg.Log.OutputPath)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("PUSH_PROVIDER", "FCM")
	t.Setenv("REGISTRY_BACKEND", "redis")
	t.Setenv("NOTIFY_RECIPIENT", "support")
	t.Setenv("PUSH_TIMEOUT", "3s")
	t.Setenv("LOG_OUTPUT_PATH", "/var/log/relay.log")

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ProviderFCM, cfg.Push.Provider)
	assert.Equal(t, BackendRedis, cfg.Registry.Backend)
	assert.Equal(t, "support", cfg.NotifyRecipient)
	assert.Equal(t, 3*time.Second, cfg.Push.HTTPTimeout)
	assert.Equal(t, "/var/log/relay.log", cfg.Log.OutputPath)
}

func TestLoadConfig_DotEnvAndYAML(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PLATFORM=Railway\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PLATFORM") })

	yamlPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("port: \"4000\"\nservice_name: Relay\npush:\n  provider: stub\n"), 0o644))

	cfg, err := LoadConfig(envPath, yamlPath)
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "Relay", cfg.ServiceName)
	assert.Equal(t, ProviderStub, cfg.Push.Provider)
	assert.Equal(t, "Railway", cfg.Platform)
}

func TestLoadConfig_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("PUSH_PROVIDER", "carrier-pigeon")

	_, err := LoadConfig("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUSH_PROVIDER")
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{
		NotifyRecipient: "admin",
		Registry:        RegistryConfig{Backend: BackendMemory},
		Push:            PushConfig{Provider: ProviderExpo},
		RabbitMQ:        RabbitMQConfig{URI: "amqp://localhost", WorkerConcurrency: 0},
	}
	assert.Error(t, cfg.Validate())

	cfg.RabbitMQ.WorkerConcurrency = 2
	assert.NoError(t, cfg.Validate())

	cfg.Registry.Backend = "etcd"
	assert.Error(t, cfg.Validate())
}
