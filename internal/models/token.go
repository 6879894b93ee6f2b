package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// previewLength is the maximum number of token characters exposed in a preview.
const previewLength = 20

// TokenPreview is a registry entry with the push token redacted.
type TokenPreview struct {
	UserID       string `json:"userId"`
	TokenPreview string `json:"tokenPreview"`
}

// RegisterPushTokenInput определяет данные для регистрации push-токена.
type RegisterPushTokenInput struct {
	UserID    string `json:"userId"`
	PushToken string `json:"pushToken"`
}

// Validate проверяет корректность данных для регистрации.
func (i *RegisterPushTokenInput) Validate() error {
	i.UserID = strings.TrimSpace(i.UserID)
	i.PushToken = strings.TrimSpace(i.PushToken)

	if i.UserID == "" || i.PushToken == "" {
		return ErrMissingTokenFields
	}
	return nil
}

// ParseRegisterPushTokenInput decodes a registration body. Values that are not
// JSON strings are treated as absent, so Validate reports them as missing.
func ParseRegisterPushTokenInput(body []byte) (RegisterPushTokenInput, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return RegisterPushTokenInput{}, nil
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return RegisterPushTokenInput{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return RegisterPushTokenInput{}, nil
	}
	return RegisterPushTokenInput{
		UserID:    stringAt(doc, "userId"),
		PushToken: stringAt(doc, "pushToken"),
	}, nil
}

// RedactToken returns a prefix of token followed by "...". The prefix is at most
// 20 characters and never longer than half of the token, so short tokens are
// not revealed in full.
func RedactToken(token string) string {
	runes := []rune(token)
	n := len(runes) / 2
	if n > previewLength {
		n = previewLength
	}
	return string(runes[:n]) + "..."
}

// IsNotFound reports whether err means the registry has no token for a user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTokenNotFound)
}
