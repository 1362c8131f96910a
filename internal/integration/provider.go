package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/salmanahmad08/payment-service/internal/types"
)

// PaymentProvider is the contract the orchestrators and the webhook reconciler
// call against. Implementations are constructed with their credentials and
// injected; there is no ambient provider singleton.
//
// Every call is a blocking I/O boundary. A call that errors or times out means
// "unknown outcome": callers must not write a local success record and must
// rely on the provider's own idempotency-key deduplication on retry.
type PaymentProvider interface {
	Name() types.PaymentProvider
	CreateCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
	RefundCharge(ctx context.Context, params RefundParams) (*RefundResult, error)
	CreateSubscription(ctx context.Context, params SubscriptionParams) (*SubscriptionResult, error)
	// ParseWebhookEvent verifies the signature over the byte-exact payload and
	// only then decodes it into a WebhookEvent. A verification failure is
	// marked ErrSignature and no event is returned.
	ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}

// ChargeParams describes a one-time charge to create and confirm
type ChargeParams struct {
	Amount         int64
	Currency       string
	CustomerRef    string
	IdempotencyKey string
	Metadata       map[string]string
}

// ChargeResult is the provider's terminal answer for a charge attempt.
// A non-success Status is a provider-reported terminal state, not a call error.
type ChargeResult struct {
	ProviderTxnID  string
	Status         types.TransactionStatus
	Amount         int64
	Currency       string
	FailureMessage string
	Raw            json.RawMessage
}

// RefundParams describes a full-amount refund of a previously confirmed charge
type RefundParams struct {
	ProviderTxnID string
	Amount        int64
}

// RefundResult is the provider's answer for a refund attempt
type RefundResult struct {
	RefundID  string
	Succeeded bool
	Raw       json.RawMessage
}

// SubscriptionParams describes a subscription to create
type SubscriptionParams struct {
	CustomerRef    string
	PlanID         string
	IdempotencyKey string
}

// SubscriptionResult is the provider's answer for a subscription create.
// CurrentPeriodEnd already has the period-end/billing-cycle-anchor fallback
// applied; nil means the provider reported neither. PlanAmount is 0 when the
// provider does not echo a billing amount synchronously.
type SubscriptionResult struct {
	ProviderSubID      string
	Status             types.SubscriptionStatus
	CancelAtPeriodEnd  bool
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	PlanAmount         int64
	Currency           string
	Raw                json.RawMessage
}
