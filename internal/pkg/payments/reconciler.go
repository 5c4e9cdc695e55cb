package payments

import (
	"github.com/chidihq/chidi/app/models"
)

// Reconcile applies webhook events to an order collection and returns the
// updated collection plus the ids of orders whose payment status changed.
//
// The reduction is a pure status overwrite: running it twice over the same
// events yields the same result as running it once. Events are processed in
// store order (oldest first) so the last status observed for a reference
// wins.
func Reconcile(orders []models.Order, events []WebhookEvent) ([]models.Order, []uint) {
	updated := make([]models.Order, len(orders))
	copy(updated, orders)

	for _, event := range events {
		ref := ExtractReference(event.Body)
		status := ExtractStatus(event.Body)
		if ref == "" || status == "" {
			continue
		}
		metaOrderNumber := ExtractMetadataOrderNumber(event.Body)
		paymentStatus := ClassifyStatus(status)

		for i := range updated {
			if updated[i].MatchesReference(ref) ||
				(metaOrderNumber != "" && updated[i].OrderNumber == metaOrderNumber) {
				updated[i].PaymentStatus = paymentStatus
			}
		}
	}

	var changed []uint
	for i := range updated {
		if updated[i].PaymentStatus != orders[i].PaymentStatus {
			changed = append(changed, updated[i].ID)
		}
	}
	return updated, changed
}
