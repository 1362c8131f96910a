package integration

import (
	"encoding/json"
	"time"

	"github.com/salmanahmad08/payment-service/internal/types"
)

// WebhookEvent is the closed decoded form of an inbound provider notification.
// Exactly one variant field is set for known event types; unknown types carry
// only Raw so they can be logged without failing the delivery.
type WebhookEvent struct {
	ID        string
	Type      types.WebhookEventType
	Timestamp time.Time

	// Set for customer.subscription.* events
	Subscription *SubscriptionEventData
	// Set for invoice.* events
	Invoice *InvoiceEventData
	// Original event payload, kept for unknown types and audit
	Raw json.RawMessage
}

// SubscriptionEventData is the subscription state a lifecycle event carries.
// CurrentPeriodEnd has the two-field fallback already applied.
type SubscriptionEventData struct {
	ProviderSubID      string
	Status             string
	CancelAtPeriodEnd  bool
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	LatestInvoiceID    string
}

// InvoiceEventData is the billing outcome an invoice event carries
type InvoiceEventData struct {
	ProviderSubID   string
	PaymentIntentID string
	AmountDue       int64
	Currency        string
}
