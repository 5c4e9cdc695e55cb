package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidihq/chidi/internal/pkg/payments"
)

func newWebhookTestApp(t *testing.T) *fiber.App {
	t.Helper()
	require.NoError(t, InitializeWebhookController(t.TempDir()))

	app := fiber.New()
	app.Post("/api/paystack/webhook", HandlePaystackWebhook)
	app.Get("/api/paystack/webhook", HandlePaystackWebhookLog)
	app.Post("/api/paystack/webhook/rebuild", HandlePaystackIndexRebuild)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func readWebhookLog(t *testing.T, app *fiber.App) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/paystack/webhook", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestWebhookIngest_NoSecretConfigured(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "")
	app := newWebhookTestApp(t)

	payload := []byte(`{"event":"charge.success","data":{"reference":"ORD-000001","status":"success"}}`)
	resp := postWebhook(t, app, payload, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["ok"])

	result := readWebhookLog(t, app)
	events := result["events"].([]any)
	require.Len(t, events, 1)

	paymentsDoc := result["payments"].(map[string]any)
	require.Contains(t, paymentsDoc, "ORD-000001")
	entries := paymentsDoc["ORD-000001"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Contains(t, entry, "receivedAt")
	assert.Contains(t, entry, "event")
}

func TestWebhookIngest_ValidSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "whsec-test")
	app := newWebhookTestApp(t)

	payload := []byte(`{"event":"charge.success","data":{"reference":"ORD-000002","status":"success"}}`)
	signature := payments.SignWebhookPayload(payload, "whsec-test")

	resp := postWebhook(t, app, payload, signature)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := readWebhookLog(t, app)
	assert.Len(t, result["events"].([]any), 1)
}

func TestWebhookIngest_InvalidSignatureRejected(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "whsec-test")
	app := newWebhookTestApp(t)

	payload := []byte(`{"event":"charge.success","data":{"reference":"ORD-000003"}}`)
	resp := postWebhook(t, app, payload, "deadbeef")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "invalid signature", body["error"])

	// A rejected delivery must leave no trace.
	result := readWebhookLog(t, app)
	assert.Empty(t, result["events"].([]any))
	assert.Empty(t, result["payments"].(map[string]any))
}

func TestWebhookIngest_MissingSignaturePermissiveDefault(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "whsec-test")
	t.Setenv("PAYSTACK_WEBHOOK_REQUIRE_SIGNATURE", "")
	app := newWebhookTestApp(t)

	resp := postWebhook(t, app, []byte(`{"event":"charge.success"}`), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookIngest_MissingSignatureStrictMode(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "whsec-test")
	t.Setenv("PAYSTACK_WEBHOOK_REQUIRE_SIGNATURE", "true")
	app := newWebhookTestApp(t)

	resp := postWebhook(t, app, []byte(`{"event":"charge.success"}`), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookIngest_NonJSONBodyStored(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "")
	app := newWebhookTestApp(t)

	resp := postWebhook(t, app, []byte("definitely not json"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := readWebhookLog(t, app)
	events := result["events"].([]any)
	require.Len(t, events, 1)
	event := events[0].(map[string]any)
	assert.Equal(t, "definitely not json", event["body"])
	// Unparseable payloads carry no reference, so the index stays empty.
	assert.Empty(t, result["payments"].(map[string]any))
}

func TestWebhookLog_EmptyStore(t *testing.T) {
	app := newWebhookTestApp(t)

	result := readWebhookLog(t, app)
	assert.Equal(t, true, result["ok"])

	events, ok := result["events"].([]any)
	require.True(t, ok, "events must encode as a JSON array")
	assert.Empty(t, events)

	paymentsDoc, ok := result["payments"].(map[string]any)
	require.True(t, ok, "payments must encode as a JSON object")
	assert.Empty(t, paymentsDoc)
}

func TestWebhookIngest_MultipleDeliveriesAccumulate(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "")
	app := newWebhookTestApp(t)

	deliveries := []string{
		`{"event":"charge.success","data":{"reference":"ORD-000010","status":"success"}}`,
		`{"event":"charge.failed","data":{"reference":"ORD-000010","status":"failed"}}`,
		`{"event":"charge.success","data":{"reference":"ORD-000011","status":"success"}}`,
	}
	for _, d := range deliveries {
		resp := postWebhook(t, app, []byte(d), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	result := readWebhookLog(t, app)
	assert.Len(t, result["events"].([]any), 3)

	paymentsDoc := result["payments"].(map[string]any)
	assert.Len(t, paymentsDoc["ORD-000010"].([]any), 2)
	assert.Len(t, paymentsDoc["ORD-000011"].([]any), 1)
}

func TestWebhookIndexRebuild(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET", "")
	app := newWebhookTestApp(t)

	resp := postWebhook(t, app, []byte(`{"data":{"reference":"ORD-000020","status":"success"}}`), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	before := readWebhookLog(t, app)["payments"].(map[string]any)

	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook/rebuild", nil)
	rebuildResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rebuildResp.StatusCode)

	after := readWebhookLog(t, app)["payments"].(map[string]any)
	assert.Equal(t, before, after)
}
