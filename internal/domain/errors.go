package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every missing-entity error below
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget %w", ErrNotFound)
	ErrSaveGoalNotFound    = fmt.Errorf("save goal %w", ErrNotFound)
)

var (
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientSaved   = errors.New("insufficient saved amount")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidCategory     = errors.New("unknown expense category")
	ErrDetailTooLong       = errors.New("detail exceeds maximum length")
	ErrExportDisabled      = errors.New("report archiving is not configured")
)

// Validation constants
const (
	MaxDetailLength      = 255
	MaxDescriptionLength = 255
	MaxNoteLength        = 1000
)
