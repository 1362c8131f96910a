package subscription

import (
	"context"
)

// Repository defines the interface for subscription persistence.
//
// Upsert is the only write path. The store keys on provider_sub_id and applies
// a recency guard: an upsert whose LastSyncedAt is older than the stored
// record's is a no-op, so out-of-order webhook redelivery cannot roll state
// back. Fields already known on the stored record (user_id, plan_id) are kept
// when the incoming record leaves them empty.
type Repository interface {
	Upsert(ctx context.Context, sub *Subscription) (*Subscription, error)
	Get(ctx context.Context, id string) (*Subscription, error)
	GetByProviderSubID(ctx context.Context, providerSubID string) (*Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*Subscription, error)
}
