package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriodMonthly is the only period the dashboard takes into account
const BudgetPeriodMonthly = "monthly"

// Budget is a spending limit for one category over a period.
// At most one budget exists per (user, category, period).
type Budget struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  string          `json:"category"`
	Period    string          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetStatus is a budget with its current calendar month spending
type BudgetStatus struct {
	Budget
	Spent                 decimal.Decimal `json:"spent"`
	Remaining             decimal.Decimal `json:"remaining"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
}

// BudgetRepository defines the interface for budget persistence operations
type BudgetRepository interface {
	// Upsert creates the budget or replaces the amount of the one with the same category and period
	Upsert(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
