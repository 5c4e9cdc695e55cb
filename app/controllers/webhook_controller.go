package controllers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/chidihq/chidi/internal/pkg/cache"
	"github.com/chidihq/chidi/internal/pkg/env"
	"github.com/chidihq/chidi/internal/pkg/payments"
)

const (
	// File names kept from the original deployment so existing logs stay
	// readable after an upgrade.
	webhookLogFile   = "paystack-webhooks.log.json"
	paymentIndexFile = "paystack-payments.json"
)

var (
	webhookStore payments.EventStore
	webhookIndex payments.ReferenceIndex
)

// InitializeWebhookController wires the file-backed event store and payment
// index inside dataDir, creating the directory if needed.
func InitializeWebhookController(dataDir string) error {
	store, err := payments.NewFileEventStore(filepath.Join(dataDir, webhookLogFile))
	if err != nil {
		return err
	}
	index, err := payments.NewFileReferenceIndex(filepath.Join(dataDir, paymentIndexFile))
	if err != nil {
		return err
	}
	webhookStore = store
	webhookIndex = index
	return nil
}

// GetWebhookStore exposes the event store for the reconciliation worker.
func GetWebhookStore() payments.EventStore {
	return webhookStore
}

// HandlePaystackWebhook ingests one webhook delivery: verify the signature,
// durably append the event, then best-effort update the payment index. The
// append is the durability-critical step; an index failure must not turn a
// recorded delivery into a provider-visible error, because providers retry
// on 5xx and we would re-record the same event.
func HandlePaystackWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("x-paystack-signature"))
	secret := env.GetEnv("PAYSTACK_SECRET", "")
	requireSignature := env.GetBool("PAYSTACK_WEBHOOK_REQUIRE_SIGNATURE", false)

	if !payments.VerifyWebhookSignature(rawBody, signature, secret, requireSignature) {
		log.Warn("Invalid Paystack signature")
		return jsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	event := payments.NewWebhookEvent(rawBody, signature, time.Now())
	if err := webhookStore.Append(event); err != nil {
		log.Errorf("Webhook append failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := webhookIndex.Record(event); err != nil {
		log.Warnf("Could not persist payment mapping: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// HandlePaystackWebhookLog serves the accumulated event log plus the payment
// index snapshot for reconciliation consumers. A never-written store yields
// empty collections, not an error.
func HandlePaystackWebhookLog(c *fiber.Ctx) error {
	events, err := webhookStore.ReadAll()
	if err != nil {
		log.Errorf("Webhook log read failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	mapping, err := webhookIndex.Snapshot()
	if err != nil {
		log.Errorf("Payment index read failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"events":   events,
		"payments": mapping,
	})
}

// HandlePaystackWebhookClear is the administrative clear: it drops the event
// log, the index and the reconciliation cursor together so a later rebuild
// starts from a consistent empty state.
func HandlePaystackWebhookClear(c *fiber.Ctx) error {
	if err := webhookStore.Clear(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := webhookIndex.Clear(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := cache.Delete(payments.CursorCacheKey); err != nil {
		log.Warnf("Could not reset reconcile cursor: %v", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// HandlePaystackIndexRebuild re-derives the payment index from the event
// store. The index is a pure projection, so this always converges to the
// same document the incremental updates maintain.
func HandlePaystackIndexRebuild(c *fiber.Ctx) error {
	events, err := webhookStore.ReadAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := webhookIndex.Rebuild(events); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "events": len(events)})
}
