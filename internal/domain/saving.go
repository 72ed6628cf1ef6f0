package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SavingAction string

const (
	SavingActionSave   SavingAction = "SAVE"
	SavingActionUnsave SavingAction = "UNSAVE"
)

// SavingLog records one change to an account's saved amount
type SavingLog struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	AccountID   int32           `json:"accountId"`
	Action      SavingAction    `json:"action"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// DisplayName returns the user-facing name of the action
func (a SavingAction) DisplayName() string {
	if a == SavingActionSave {
		return "Money Saved"
	}
	return "Money Unmarked"
}

// Icon returns the icon shown next to the action
func (a SavingAction) Icon() string {
	if a == SavingActionSave {
		return "💰"
	}
	return "💸"
}

// SavingLogView is a saving log decorated for display
type SavingLogView struct {
	SavingLog
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
}

// View decorates the log with its action's display name and icon
func (l *SavingLog) View() *SavingLogView {
	return &SavingLogView{SavingLog: *l, DisplayName: l.Action.DisplayName(), Icon: l.Action.Icon()}
}

// SavingLogRepository persists saving logs. Create adjusts the account's saved
// amount atomically: SAVE requires balance >= amount (ErrInsufficientBalance),
// UNSAVE requires saved >= amount (ErrInsufficientSaved).
type SavingLogRepository interface {
	Create(ctx context.Context, log *SavingLog) (*SavingLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SavingLog, error)
}

// SaveGoal is the user's single savings target
type SaveGoal struct {
	ID           int32           `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Description  string          `json:"description"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SaveGoalRepository defines the interface for save goal persistence operations
type SaveGoalRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*SaveGoal, error)
	Upsert(ctx context.Context, goal *SaveGoal) (*SaveGoal, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
