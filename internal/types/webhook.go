package types

// WebhookEventType enumerates the provider event types the reconciler handles.
// Anything else is decoded into the unknown variant, logged and acknowledged.
type WebhookEventType string

const (
	WebhookEventTypeSubscriptionCreated  WebhookEventType = "customer.subscription.created"
	WebhookEventTypeSubscriptionUpdated  WebhookEventType = "customer.subscription.updated"
	WebhookEventTypeInvoicePaymentFailed WebhookEventType = "invoice.payment_failed"
	WebhookEventTypeUnknown              WebhookEventType = "unknown"
)

func (t WebhookEventType) String() string {
	return string(t)
}
