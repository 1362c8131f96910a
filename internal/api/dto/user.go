package dto

import (
	"time"

	"github.com/salmanahmad08/payment-service/internal/domain/user"
)

// UserResponse is the user projection attached to transaction listings.
// It deliberately omits credential fields.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CustomerRef string    `json:"customer_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse creates a new user response from a user record
func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		CustomerRef: u.CustomerRef,
		CreatedAt:   u.CreatedAt,
	}
}
