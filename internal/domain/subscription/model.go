package subscription

import (
	"time"

	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/types"
)

// Subscription is the lifecycle record for a provider subscription. Exactly one
// live record exists per ProviderSubID; the orchestrator and the webhook
// reconciler both write it through upserts and never conflict on identity.
type Subscription struct {
	// Unique identifier for this subscription record
	ID string `db:"id" json:"id"`
	// The user this subscription belongs to. Empty when the record was first
	// materialized from a webhook and the owning user is not yet known.
	UserID string `db:"user_id" json:"user_id"`
	// Which external payment provider manages the subscription
	Provider types.PaymentProvider `db:"provider" json:"provider"`
	// The provider-side subscription identifier, unique across all records
	ProviderSubID string `db:"provider_sub_id" json:"provider_sub_id"`
	// The provider plan/price the subscription bills against
	PlanID string `db:"plan_id" json:"plan_id"`
	// Current lifecycle status
	Status types.SubscriptionStatus `db:"status" json:"status"`
	// Whether the subscription is set to cancel at the end of the current period
	CancelAtPeriodEnd bool `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	// Start of the current billing period, if known
	CurrentPeriodStart *time.Time `db:"current_period_start" json:"current_period_start,omitempty"`
	// End of the current billing period. Nil means unknown: the provider sent
	// neither a period end nor a billing cycle anchor.
	CurrentPeriodEnd *time.Time `db:"current_period_end" json:"current_period_end,omitempty"`
	// Timestamp of the most recent provider state applied to this record.
	// Upserts carrying an older timestamp are skipped so a redelivered stale
	// event cannot regress a record a later event already advanced.
	LastSyncedAt time.Time `db:"last_synced_at" json:"last_synced_at"`

	types.BaseModel
}

// Validate validates the subscription
func (s *Subscription) Validate() error {
	if s.ProviderSubID == "" {
		return ierr.NewError("invalid provider subscription id").
			WithHint("Provider subscription id is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.Status.Validate(); err != nil {
		return ierr.NewError("invalid subscription status").
			WithHint("Subscription status is invalid").
			Mark(ierr.ErrValidation)
	}
	if err := s.Provider.Validate(); err != nil {
		return ierr.NewError("invalid payment provider").
			WithHint("Payment provider is invalid").
			Mark(ierr.ErrValidation)
	}
	return nil
}
