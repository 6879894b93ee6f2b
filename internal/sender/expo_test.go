package sender

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

func TestExpoSender_Send(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"status":"ok","id":"receipt-1"}}`))
	}))
	defer srv.Close()

	s := NewExpoSender(srv.Client(), srv.URL, "secret", zap.NewNop())
	msg := models.NewPushMessage("ExponentPushToken[abc]", "Alice", "hi", map[string]any{"channelId": "c1"})

	result := s.Send(context.Background(), msg)

	require.True(t, result.OK(), result.Error)
	assert.Equal(t, map[string]any{"status": "ok", "id": "receipt-1"}, result.Receipt["data"])
	assert.Equal(t, http.StatusOK, result.HTTPStatus)
	assert.False(t, result.Rejected())
	assert.Equal(t, map[string]any{
		"to":       "ExponentPushToken[abc]",
		"sound":    "default",
		"title":    "Alice",
		"body":     "hi",
		"data":     map[string]any{"channelId": "c1"},
		"badge":    float64(1),
		"priority": "high",
	}, gotBody)
}

func TestExpoSender_ErrorStatusReturnsReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"VALIDATION_ERROR","message":"\"to\" is invalid"}]}`))
	}))
	defer srv.Close()

	s := NewExpoSender(srv.Client(), srv.URL, "", zap.NewNop())
	result := s.Send(context.Background(), models.NewPushMessage("bad", "t", "b", nil))

	require.True(t, result.OK())
	assert.True(t, result.Rejected())
	assert.Equal(t, http.StatusBadRequest, result.HTTPStatus)
	assert.Contains(t, result.Receipt, "errors")
}

func TestExpoSender_InvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	s := NewExpoSender(srv.Client(), srv.URL, "", zap.NewNop())
	result := s.Send(context.Background(), models.NewPushMessage("tok", "t", "b", nil))

	assert.False(t, result.OK())
	assert.Contains(t, result.Error, "decode expo response")
}

func TestExpoSender_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewExpoSender(http.DefaultClient, url, "", zap.NewNop())
	result := s.Send(context.Background(), models.NewPushMessage("tok", "t", "b", nil))

	assert.False(t, result.OK())
	assert.Contains(t, result.Error, "expo request failed")
}

func TestNewExpoSender_DefaultURL(t *testing.T) {
	s := NewExpoSender(http.DefaultClient, "", "", zap.NewNop()).(*expoSender)
	assert.Equal(t, DefaultExpoURL, s.url)
}
