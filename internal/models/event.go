package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EventType is the Stream Chat webhook event tag.
type EventType string

const (
	EventTypeTest       EventType = "test"
	EventTypeMessageNew EventType = "message.new"
)

// WebhookEvent is a fully defaulted inbound event. Absent or mistyped fields of
// the incoming payload are empty strings.
type WebhookEvent struct {
	Type      EventType
	Text      string
	UserID    string
	UserName  string
	ChannelID string
	PushToken string
}

// ParseWebhookEvent decodes a webhook body. Only syntactically invalid JSON is
// an error: an empty body, a non-object document or fields of the wrong type
// all produce an event with empty values.
func ParseWebhookEvent(body []byte) (WebhookEvent, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return WebhookEvent{}, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return WebhookEvent{}, nil
	}

	return WebhookEvent{
		Type:      EventType(stringAt(doc, "type")),
		Text:      stringAt(doc, "message", "text"),
		UserID:    stringAt(doc, "user", "id"),
		UserName:  stringAt(doc, "user", "name"),
		ChannelID: stringAt(doc, "channel", "id"),
		PushToken: stringAt(doc, "pushToken"),
	}, nil
}

// stringAt walks nested objects along path and returns the string found at the
// end, or "" if any step is missing or not of the expected type.
func stringAt(doc map[string]any, path ...string) string {
	var cur any = doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}
