package dto

import (
	"time"

	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/types"
)

// CreateSubscriptionRequest represents a request to start a recurring subscription
type CreateSubscriptionRequest struct {
	// PlanID is the provider price identifier. When empty the configured
	// default plan is used.
	PlanID     string `json:"plan_id"`
	CustomerID string `json:"customer_id" validate:"required"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Provide the provider customer identifier to subscribe").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID                 string                   `json:"id"`
	UserID             string                   `json:"user_id"`
	Provider           types.PaymentProvider    `json:"provider"`
	ProviderSubID      string                   `json:"provider_sub_id"`
	PlanID             string                   `json:"plan_id"`
	Status             types.SubscriptionStatus `json:"status"`
	CancelAtPeriodEnd  bool                     `json:"cancel_at_period_end"`
	CurrentPeriodStart *time.Time               `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time               `json:"current_period_end,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// NewSubscriptionResponse creates a new subscription response from a subscription record
func NewSubscriptionResponse(s *subscription.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:                 s.ID,
		UserID:             s.UserID,
		Provider:           s.Provider,
		ProviderSubID:      s.ProviderSubID,
		PlanID:             s.PlanID,
		Status:             s.Status,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// CreateSubscriptionResponse bundles the subscription with the ledger record
// written for the signup.
type CreateSubscriptionResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
	Transaction  *TransactionResponse  `json:"transaction"`
	// AlreadyExists is true when the idempotency key matched a prior signup
	// and the stored result was returned without calling the provider.
	AlreadyExists bool `json:"already_exists"`
}
