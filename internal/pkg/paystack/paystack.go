// Package paystack simulates the payment provider surface the storefront
// needs: reference generation and checkout links. Real gateway calls are
// intentionally absent; payment state only ever advances through the
// webhook pipeline, which is what a provider integration would drive too.
package paystack

import (
	"fmt"
	"net/url"
	"time"

	"github.com/chidihq/chidi/internal/pkg/env"
)

const DefaultCheckoutURL = "https://checkout.chidi.local/pay"

// GenerateReference builds a provider transaction reference for an order,
// e.g. "CHIDI-ORD-001234-1724832000000".
func GenerateReference(orderNumber string) string {
	return fmt.Sprintf("CHIDI-%s-%d", orderNumber, time.Now().UnixMilli())
}

// CheckoutLink returns the simulated hosted-checkout URL for a reference.
func CheckoutLink(reference string, amount float64) string {
	base := env.GetEnv("PAYSTACK_CHECKOUT_URL", DefaultCheckoutURL)
	return fmt.Sprintf("%s?reference=%s&amount=%d",
		base, url.QueryEscape(reference), int64(amount*100))
}
