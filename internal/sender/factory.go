package sender

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"stream-push-relay/internal/config"
)

// New builds the configured push provider wrapped with Instrumented.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Sender, error) {
	var (
		s   Sender
		err error
	)
	switch cfg.Push.Provider {
	case config.ProviderExpo:
		httpClient := &http.Client{Timeout: cfg.Push.HTTPTimeout}
		s = NewExpoSender(httpClient, cfg.Push.ExpoURL, cfg.Push.ExpoToken, logger)
	case config.ProviderFCM:
		s, err = NewFCMSender(ctx, cfg.FCM, logger)
	case config.ProviderAPNS:
		s, err = NewApnsSender(cfg.APNS, logger)
	case config.ProviderStub:
		s = NewStubSender(logger)
	default:
		err = fmt.Errorf("unsupported push provider %q", cfg.Push.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Instrumented(s, cfg.Push.Provider, logger), nil
}
