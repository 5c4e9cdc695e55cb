package payments

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Reference and status extraction shared by the payment index and the order
// reconciler. Keeping a single implementation is deliberate: two copies of
// the same precedence rules can silently drift apart.

var (
	successPattern = regexp.MustCompile(`(?i)success|paid|completed`)
	failurePattern = regexp.MustCompile(`(?i)failed|error`)
)

// paymentData digs the payment data object out of an event body: the "data"
// member when the body is an object that has one, else the body object
// itself. Bodies stored as raw JSON or as text are decoded first.
func paymentData(body any) map[string]any {
	m := asObject(body)
	if m == nil {
		return nil
	}
	if data, ok := m["data"].(map[string]any); ok {
		return data
	}
	return m
}

func asObject(body any) map[string]any {
	switch v := body.(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err == nil {
			return m
		}
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err == nil {
			return m
		}
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err == nil {
			return m
		}
	}
	return nil
}

// ExtractReference pulls the business order reference out of an event body.
// Precedence, first match wins: the transaction reference on the payment
// data, then the merchant-supplied order number in the metadata object, then
// the merchant-supplied order id there. Empty string means not referenced.
func ExtractReference(body any) string {
	data := paymentData(body)
	if data == nil {
		return ""
	}
	if ref := stringValue(data["reference"]); ref != "" {
		return ref
	}
	meta, _ := data["metadata"].(map[string]any)
	if meta == nil {
		return ""
	}
	if ref := stringValue(meta["orderNumber"]); ref != "" {
		return ref
	}
	return stringValue(meta["orderId"])
}

// ExtractMetadataOrderNumber returns the merchant order number from the
// metadata object regardless of whether a transaction reference exists. The
// reconciler also matches orders against it, as the original flow did.
func ExtractMetadataOrderNumber(body any) string {
	data := paymentData(body)
	if data == nil {
		return ""
	}
	meta, _ := data["metadata"].(map[string]any)
	if meta == nil {
		return ""
	}
	return stringValue(meta["orderNumber"])
}

// ExtractStatus pulls the raw provider status signal from an event body.
// Precedence: status, then gateway_response, then payment_status.
func ExtractStatus(body any) string {
	data := paymentData(body)
	if data == nil {
		return ""
	}
	if s := stringValue(data["status"]); s != "" {
		return s
	}
	if s := stringValue(data["gateway_response"]); s != "" {
		return s
	}
	return stringValue(data["payment_status"])
}

// ClassifyStatus normalizes a raw provider status into a payment status.
// Unrecognized statuses pass through unchanged so provider-specific values
// stay visible instead of being flattened.
func ClassifyStatus(raw string) string {
	switch {
	case successPattern.MatchString(raw):
		return "paid"
	case failurePattern.MatchString(raw):
		return "failed"
	default:
		return raw
	}
}

// stringValue normalizes reference/status values to strings. Providers echo
// merchant metadata back with numeric ids turned into JSON numbers, so both
// sides of a comparison must be stringified.
func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}
