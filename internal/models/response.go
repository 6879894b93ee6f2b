package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WebhookResponse is the acknowledgment returned for every processed webhook event.
type WebhookResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  *SendResult `json:"result,omitempty"`
}

// RegisterTokenResponse is returned after a successful token registration.
type RegisterTokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TokenListResponse is the body of GET /tokens.
type TokenListResponse struct {
	Tokens []TokenPreview `json:"tokens"`
	Count  int            `json:"count"`
}

// RootResponse is the service banner served on GET /.
type RootResponse struct {
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
	Timestamp string   `json:"timestamp"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Platform         string `json:"platform,omitempty"`
	Timestamp        string `json:"timestamp"`
	RegisteredTokens *int   `json:"registeredTokens,omitempty"`
}
