package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Push providers
const (
	ProviderExpo = "expo"
	ProviderFCM  = "fcm"
	ProviderAPNS = "apns"
	ProviderStub = "stub"
)

// Registry backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the relay configuration.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"production"`
	Port            string `yaml:"port" env:"PORT" env-default:"3000"`
	ServiceName     string `yaml:"service_name" env:"SERVICE_NAME" env-default:"Stream Chat Push Relay"`
	Platform        string `yaml:"platform" env:"PLATFORM"`
	NotifyRecipient string `yaml:"notify_recipient" env:"NOTIFY_RECIPIENT" env-default:"admin"`
	MetricsEnabled  bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED" env-default:"true"`

	Log      LogConfig      `yaml:"log"`
	Registry RegistryConfig `yaml:"registry"`
	Redis    RedisConfig    `yaml:"redis"`
	Push     PushConfig     `yaml:"push"`
	FCM      FCMConfig      `yaml:"fcm"`
	APNS     APNSConfig     `yaml:"apns"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	OutputPath string `yaml:"output_path" env:"LOG_OUTPUT_PATH"` // Пусто - stdout
}

type RegistryConfig struct {
	Backend string `yaml:"backend" env:"REGISTRY_BACKEND" env-default:"memory"` // memory | redis
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	HashKey  string `yaml:"hash_key" env:"REDIS_HASH_KEY" env-default:"push_tokens"`
}

type PushConfig struct {
	Provider    string        `yaml:"provider" env:"PUSH_PROVIDER" env-default:"expo"` // expo | fcm | apns | stub
	ExpoURL     string        `yaml:"expo_url" env:"EXPO_PUSH_URL" env-default:"https://exp.host/--/api/v2/push/send"`
	ExpoToken   string        `yaml:"expo_access_token" env:"EXPO_ACCESS_TOKEN"` // Optional: enhanced push security
	HTTPTimeout time.Duration `yaml:"timeout" env:"PUSH_TIMEOUT" env-default:"10s"`
}

type FCMConfig struct {
	CredentialsPath string `yaml:"credentials_path" env:"FCM_CREDENTIALS_PATH"` // Путь к файлу ключа сервис-аккаунта
}

type APNSConfig struct {
	KeyID      string `yaml:"key_id" env:"APNS_KEY_ID"`     // Required if APNS is used
	TeamID     string `yaml:"team_id" env:"APNS_TEAM_ID"`   // Required if APNS is used
	KeyPath    string `yaml:"key_path" env:"APNS_KEY_PATH"` // Required if APNS is used
	Topic      string `yaml:"topic" env:"APNS_TOPIC"`       // Required if APNS is used
	Production bool   `yaml:"production" env:"APNS_PRODUCTION" env-default:"false"`
}

type RabbitMQConfig struct {
	URI               string `yaml:"uri" env:"RABBITMQ_URI"` // Пусто - очередь событий отключена
	EventQueueName    string `yaml:"event_queue_name" env:"EVENT_QUEUE_NAME" env-default:"stream_chat_events"`
	WorkerConcurrency int    `yaml:"worker_concurrency" env:"WORKER_CONCURRENCY" env-default:"4"`
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Push.Provider {
	case ProviderExpo, ProviderFCM, ProviderAPNS, ProviderStub:
	default:
		return fmt.Errorf("unsupported PUSH_PROVIDER %q", c.Push.Provider)
	}
	switch c.Registry.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unsupported REGISTRY_BACKEND %q", c.Registry.Backend)
	}
	if strings.TrimSpace(c.NotifyRecipient) == "" {
		return fmt.Errorf("NOTIFY_RECIPIENT cannot be empty")
	}
	if c.RabbitMQ.URI != "" && c.RabbitMQ.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", c.RabbitMQ.WorkerConcurrency)
	}
	return nil
}

// LoadConfig loads an optional .env file, then the YAML config at configPath
// (if it exists) overlaid with environment variables.
func LoadConfig(envFilePath, configPath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	if _, err := os.Stat(configPath); configPath != "" && err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	cfg.Push.Provider = strings.ToLower(strings.TrimSpace(cfg.Push.Provider))
	cfg.Registry.Backend = strings.ToLower(strings.TrimSpace(cfg.Registry.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
