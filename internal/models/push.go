package models

import (
	"encoding/json"
)

// Fixed attributes of every push message sent by the relay.
const (
	DefaultSound    = "default"
	DefaultBadge    = 1
	DefaultPriority = "high"
)

// PushMessage is the provider-neutral push notification built for one dispatch.
// Its JSON form is the Expo push API message schema.
type PushMessage struct {
	To       string         `json:"to"`
	Sound    string         `json:"sound"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data"`
	Badge    int            `json:"badge"`
	Priority string         `json:"priority"`
}

// NewPushMessage builds a message with the fixed sound, badge and priority.
func NewPushMessage(token, title, body string, data map[string]any) PushMessage {
	if data == nil {
		data = map[string]any{}
	}
	return PushMessage{
		To:       token,
		Sound:    DefaultSound,
		Title:    title,
		Body:     body,
		Data:     data,
		Badge:    DefaultBadge,
		Priority: DefaultPriority,
	}
}

// SendResult is the outcome of one send attempt: either the receipt returned by
// the push provider or a failure description. It is embedded as-is in webhook
// responses.
type SendResult struct {
	Receipt map[string]any
	Error   string
	// HTTPStatus is the provider's HTTP status when known. Not rendered.
	HTTPStatus int
}

// SendFailure builds a failed SendResult from err.
func SendFailure(err error) SendResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return SendResult{Error: msg}
}

// SendSuccess builds a successful SendResult carrying receipt.
func SendSuccess(receipt map[string]any) SendResult {
	if receipt == nil {
		receipt = map[string]any{}
	}
	return SendResult{Receipt: receipt}
}

// OK reports whether the provider accepted the request.
func (r SendResult) OK() bool {
	return r.Error == ""
}

// Rejected reports a receipt returned together with an HTTP error status:
// the provider answered, but refused the request.
func (r SendResult) Rejected() bool {
	return r.OK() && r.HTTPStatus >= 400
}

// MarshalJSON renders a success as the raw receipt and a failure as
// {"error": "..."} plus whatever receipt fields the provider returned.
func (r SendResult) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		out := make(map[string]any, len(r.Receipt)+1)
		for k, v := range r.Receipt {
			out[k] = v
		}
		out["error"] = r.Error
		return json.Marshal(out)
	}
	if r.Receipt == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Receipt)
}
