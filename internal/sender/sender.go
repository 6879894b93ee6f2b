package sender

import (
	"context"
	"net/http"

	"stream-push-relay/internal/models"
)

// Sender delivers one push message to a push-delivery service.
// Send never panics or returns a bare error: failures are reported in the
// returned SendResult. Exactly one attempt is made per call.
type Sender interface {
	Send(ctx context.Context, msg models.PushMessage) models.SendResult
}

// HTTPClient интерфейс для *http.Client для мокирования
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
