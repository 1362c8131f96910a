package testutil

import (
	"context"

	"github.com/salmanahmad08/payment-service/internal/domain/user"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

// NewInMemoryUserStore creates a new in-memory user repository
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

// Clear resets all stored data
func (m *InMemoryUserStore) Clear() {
	m.InMemoryStore.Clear()
}

// Create stores a new user
func (m *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").
			WithHint("User cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if _, err := m.GetByEmail(ctx, u.Email); err == nil {
		return ierr.NewError("duplicate email").
			WithHint("A user with this email already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return m.InMemoryStore.Create(ctx, u.ID, u)
}

// Get retrieves a user by ID
func (m *InMemoryUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	return m.InMemoryStore.Get(ctx, id)
}

// GetByEmail retrieves a user by email
func (m *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	items, err := m.InMemoryStore.List(ctx, nil, func(_ context.Context, u *user.User, _ interface{}) bool {
		return u.Email == email
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("user not found").
			WithHint("No user exists with this email").
			Mark(ierr.ErrNotFound)
	}
	return items[0], nil
}
