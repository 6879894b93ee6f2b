package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config настройки логгера ретранслятора.
type Config struct {
	Level      string // debug | info | warn | error, по умолчанию info
	Encoding   string // json | console
	OutputPath string // файл лога, пусто - stdout
	Service    string // попадает в каждую запись как "service"
	Platform   string // попадает в каждую запись как "platform", если задан
}

// New создает zap.Logger: ISO8601 "timestamp", уровни заглавными, без caller и stacktrace.
func New(cfg Config) (*zap.Logger, error) {
	zapConfig := zap.Config{
		Level:             parseLevel(cfg.Level),
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding(cfg.Encoding),
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{outputPath(cfg.OutputPath)},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     identityFields(cfg),
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func parseLevel(raw string) zap.AtomicLevel {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		// Логгера еще нет
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'. Error: %v\n", raw, err)
		level.SetLevel(zap.InfoLevel)
	}
	return level
}

func encoding(raw string) string {
	if strings.EqualFold(raw, "console") {
		return "console"
	}
	return "json"
}

func encoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return encoderCfg
}

func outputPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "stdout"
	}
	return path
}

func identityFields(cfg Config) map[string]any {
	fields := map[string]any{}
	if cfg.Service != "" {
		fields["service"] = cfg.Service
	}
	if cfg.Platform != "" {
		fields["platform"] = cfg.Platform
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
