package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/postgres"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

// Upsert writes the subscription keyed by provider_sub_id. The WHERE clause on
// the conflict arm is the stale-event guard: a row whose last_synced_at is
// newer than the incoming state wins and the write is a no-op. NULLIF/COALESCE
// keep identity fields the reconciler may not know (user_id, plan_id) from
// being blanked by webhook-originated writes.
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error) {
	sub.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO subscriptions (
			id,
			user_id,
			provider,
			provider_sub_id,
			plan_id,
			status,
			cancel_at_period_end,
			current_period_start,
			current_period_end,
			last_synced_at,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:user_id,
			:provider,
			:provider_sub_id,
			:plan_id,
			:status,
			:cancel_at_period_end,
			:current_period_start,
			:current_period_end,
			:last_synced_at,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
		ON CONFLICT (provider_sub_id) DO UPDATE SET
			user_id = COALESCE(NULLIF(EXCLUDED.user_id, ''), subscriptions.user_id),
			plan_id = COALESCE(NULLIF(EXCLUDED.plan_id, ''), subscriptions.plan_id),
			status = EXCLUDED.status,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			current_period_start = COALESCE(EXCLUDED.current_period_start, subscriptions.current_period_start),
			current_period_end = COALESCE(EXCLUDED.current_period_end, subscriptions.current_period_end),
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		WHERE subscriptions.last_synced_at <= EXCLUDED.last_synced_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to upsert subscription").
			Mark(ierr.ErrDatabase)
	}

	// Return the stored row: on a skipped stale write this is the newer state.
	return r.GetByProviderSubID(ctx, sub.ProviderSubID)
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return r.getBy(ctx, "id", id)
}

func (r *subscriptionRepository) GetByProviderSubID(ctx context.Context, providerSubID string) (*subscription.Subscription, error) {
	return r.getBy(ctx, "provider_sub_id", providerSubID)
}

func (r *subscriptionRepository) getBy(ctx context.Context, column, value string) (*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE ` + column + ` = $1`

	var sub subscription.Subscription
	if err := r.db.GetContext(ctx, &sub, query, value); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("subscription not found").
				WithHint("No subscription found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC`

	subs := []*subscription.Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}

	return subs, nil
}
