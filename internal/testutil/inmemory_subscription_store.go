package testutil

import (
	"context"
	"sync"

	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
)

// InMemorySubscriptionStore implements subscription.Repository with the same
// upsert semantics as the postgres store: records key on provider_sub_id, an
// older LastSyncedAt is a no-op, and known fields survive empty incoming ones.
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
	mu sync.Mutex
}

// NewInMemorySubscriptionStore creates a new in-memory subscription repository
func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

// Clear resets all stored data
func (m *InMemorySubscriptionStore) Clear() {
	m.InMemoryStore.Clear()
}

// Upsert inserts the subscription or merges it into the record already stored
// under the same provider subscription id
func (m *InMemorySubscriptionStore) Upsert(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error) {
	if sub == nil {
		return nil, ierr.NewError("subscription cannot be nil").
			WithHint("Subscription cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.getByProviderSubID(ctx, sub.ProviderSubID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		if cerr := m.InMemoryStore.Create(ctx, sub.ID, sub); cerr != nil {
			return nil, cerr
		}
		return sub, nil
	}

	// Recency guard: never regress to state older than what is stored.
	if sub.LastSyncedAt.Before(existing.LastSyncedAt) {
		return existing, nil
	}

	existing.Status = sub.Status
	existing.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
	existing.LastSyncedAt = sub.LastSyncedAt
	existing.UpdatedAt = sub.UpdatedAt
	if sub.UserID != "" {
		existing.UserID = sub.UserID
	}
	if sub.PlanID != "" {
		existing.PlanID = sub.PlanID
	}
	if sub.CurrentPeriodStart != nil {
		existing.CurrentPeriodStart = sub.CurrentPeriodStart
	}
	if sub.CurrentPeriodEnd != nil {
		existing.CurrentPeriodEnd = sub.CurrentPeriodEnd
	}
	if err := m.InMemoryStore.Update(ctx, existing.ID, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get retrieves a subscription by ID
func (m *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return m.InMemoryStore.Get(ctx, id)
}

// GetByProviderSubID retrieves a subscription by its provider identifier
func (m *InMemorySubscriptionStore) GetByProviderSubID(ctx context.Context, providerSubID string) (*subscription.Subscription, error) {
	return m.getByProviderSubID(ctx, providerSubID)
}

func (m *InMemorySubscriptionStore) getByProviderSubID(ctx context.Context, providerSubID string) (*subscription.Subscription, error) {
	items, err := m.InMemoryStore.List(ctx, nil, func(_ context.Context, s *subscription.Subscription, _ interface{}) bool {
		return s.ProviderSubID == providerSubID
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("subscription not found").
			WithHint("No subscription exists with this provider id").
			Mark(ierr.ErrNotFound)
	}
	return items[0], nil
}

// ListByUser retrieves all subscriptions owned by a user
func (m *InMemorySubscriptionStore) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	return m.InMemoryStore.List(ctx, nil, func(_ context.Context, s *subscription.Subscription, _ interface{}) bool {
		return s.UserID == userID
	}, func(i, j *subscription.Subscription) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
}
