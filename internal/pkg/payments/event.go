package payments

import (
	"bytes"
	"encoding/json"
	"time"
)

// WebhookEvent is one durably recorded webhook delivery. Body holds the
// parsed JSON payload when the raw bytes were valid JSON, otherwise the raw
// text unchanged — a shape mismatch must never lose the payload.
type WebhookEvent struct {
	ReceivedAt time.Time `json:"receivedAt"`
	Signature  string    `json:"signature"`
	Body       any       `json:"body"`
}

// NewWebhookEvent builds an event from the raw request bytes. The timestamp
// is set here, never trusted from the sender.
func NewWebhookEvent(raw []byte, signature string, receivedAt time.Time) WebhookEvent {
	return WebhookEvent{
		ReceivedAt: receivedAt,
		Signature:  signature,
		Body:       parseBody(raw),
	}
}

// parseBody keeps the payload as compact JSON when parseable, else as the
// original text. Compaction keeps the stored record on a single line.
func parseBody(raw []byte) any {
	if json.Valid(raw) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return json.RawMessage(buf.Bytes())
		}
	}
	return string(raw)
}
