package types

import (
	"fmt"

	"github.com/samber/lo"
)

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusIncomplete,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid subscription status: %s", s)
	}
	return nil
}

// ParseSubscriptionStatus maps a provider-reported status string onto our
// lifecycle enum. Statuses the provider reports that we do not model
// (trialing, unpaid, ...) collapse to incomplete rather than failing.
func ParseSubscriptionStatus(s string) SubscriptionStatus {
	status := SubscriptionStatus(s)
	if err := status.Validate(); err != nil {
		return SubscriptionStatusIncomplete
	}
	return status
}
