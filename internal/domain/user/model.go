package user

import (
	"github.com/salmanahmad08/payment-service/internal/types"
)

// User is the minimal profile the ledger joins onto listed transactions.
// Account management lives outside this service.
type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	// Provider-side customer reference used when charging this user
	CustomerRef string `db:"customer_ref" json:"customer_ref"`
	// Never exposed through API projections
	PasswordHash string `db:"password_hash" json:"-"`

	types.BaseModel
}
