package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIn  TransactionType = "IN"
	TransactionTypeOut TransactionType = "OUT"
)

// DepositDetail is the detail text recorded on deposit transactions
const DepositDetail = "Deposit"

// Transaction is a single money movement on an account. Category is only set
// for OUT transactions whose category text matched the catalog.
type Transaction struct {
	ID        int32            `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	AccountID int32            `json:"accountId"`
	Type      TransactionType  `json:"type"`
	Date      time.Time        `json:"date"`
	Category  *ExpenseCategory `json:"expenseCategory,omitempty"`
	Detail    string           `json:"detail"`
	Amount    decimal.Decimal  `json:"amount"`
	Note      *string          `json:"note,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TransactionFilters narrows a transaction listing. Dates are inclusive.
type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
}

// The dashboard lists at most the ten newest transactions
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 10
)

// UpdateTransactionData holds the editable fields of an expense
type UpdateTransactionData struct {
	Date     time.Time
	Category *ExpenseCategory
	Detail   string
	Amount   decimal.Decimal
	Note     *string
}

// TransactionView is a transaction decorated for display
type TransactionView struct {
	ID                  int32            `json:"id"`
	Type                TransactionType  `json:"type"`
	Date                time.Time        `json:"date"`
	ExpenseCategory     *ExpenseCategory `json:"expenseCategory"`
	Detail              string           `json:"detail"`
	Amount              decimal.Decimal  `json:"amount"`
	Note                *string          `json:"note"`
	CategoryDisplayName string           `json:"categoryDisplayName"`
	Icon                string           `json:"icon"`
}

// TransactionRepository persists transactions. Create, Update and Delete adjust
// the owning account's balance in the same database transaction and fail with
// ErrInsufficientBalance when the balance would go negative.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int32) ([]*Transaction, error)
	Update(ctx context.Context, userID uuid.UUID, id int32, data *UpdateTransactionData) (*Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
