package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAccountName is the name given to an account created on demand
const DefaultAccountName = "Main"

// Account is a balance holder. Saved marks the part of the balance earmarked for goals.
type Account struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Saved     decimal.Decimal `json:"saved"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	// GetOrCreatePrimary returns the user's oldest account, creating one with a zero balance when none exists
	GetOrCreatePrimary(ctx context.Context, userID uuid.UUID) (*Account, error)
}
