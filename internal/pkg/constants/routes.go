package constants

// Static route constants
const (
	APIRoute = "/api"
	// PaystackWebhookRoute serves ingest (POST), the reconciliation read
	// path (GET) and the administrative clear (DELETE).
	PaystackWebhookRoute = "/api/paystack/webhook"
)
