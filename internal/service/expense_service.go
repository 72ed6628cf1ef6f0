package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/analytics"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService handles OUT transactions
type ExpenseService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	notifier        *ChangeNotifier
	clock           Clock
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	notifier *ChangeNotifier,
	clock Clock,
) *ExpenseService {
	return &ExpenseService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
		clock:           clock,
	}
}

// ExpenseInput holds the input for creating or updating an expense.
// Category is free text matched against the catalog; a nil Date means today
// on create and "unchanged" on update.
type ExpenseInput struct {
	Date     *time.Time
	Category string
	Detail   string
	Amount   decimal.Decimal
	Note     *string
}

// ExpenseFilters narrows an expense listing
type ExpenseFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (in *ExpenseInput) validate() (string, *string, error) {
	if !in.Amount.IsPositive() {
		return "", nil, domain.ErrInvalidAmount
	}
	detail := strings.TrimSpace(in.Detail)
	if detail == "" {
		return "", nil, fmt.Errorf("%w: detail is required", domain.ErrInvalidInput)
	}
	if len(detail) > domain.MaxDetailLength {
		return "", nil, domain.ErrDetailTooLong
	}

	var note *string
	if in.Note != nil {
		trimmed := strings.TrimSpace(*in.Note)
		if len(trimmed) > domain.MaxNoteLength {
			return "", nil, fmt.Errorf("%w: note exceeds %d characters", domain.ErrInvalidInput, domain.MaxNoteLength)
		}
		if trimmed != "" {
			note = &trimmed
		}
	}
	return detail, note, nil
}

// Create records an expense on the primary account. The balance must cover it.
func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, input ExpenseInput) (*domain.TransactionView, error) {
	detail, note, err := input.validate()
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return nil, err
	}

	date := s.clock.today()
	if input.Date != nil {
		date = util.DateOf(*input.Date)
	}

	created, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:    userID,
		AccountID: account.ID,
		Type:      domain.TransactionTypeOut,
		Date:      date,
		Category:  domain.ParseExpenseCategory(input.Category),
		Detail:    detail,
		Amount:    input.Amount,
		Note:      note,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create expense")
		return nil, err
	}

	view := analytics.TransactionView(created)
	s.notifier.Changed(ctx, userID, websocket.TransactionCreated(view))
	return view, nil
}

// List returns the user's expenses, newest first
func (s *ExpenseService) List(ctx context.Context, userID uuid.UUID, filters ExpenseFilters) ([]*domain.TransactionView, error) {
	out := domain.TransactionTypeOut
	txs, err := s.transactionRepo.ListByUser(ctx, userID, &domain.TransactionFilters{
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
		Type:      &out,
	})
	if err != nil {
		return nil, err
	}
	return analytics.TransactionViews(txs), nil
}

// Get returns one expense
func (s *ExpenseService) Get(ctx context.Context, userID uuid.UUID, id int32) (*domain.TransactionView, error) {
	tx, err := s.getExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return analytics.TransactionView(tx), nil
}

// Update rewrites an expense. A larger amount charges the difference to the balance.
func (s *ExpenseService) Update(ctx context.Context, userID uuid.UUID, id int32, input ExpenseInput) (*domain.TransactionView, error) {
	detail, note, err := input.validate()
	if err != nil {
		return nil, err
	}

	existing, err := s.getExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date := existing.Date
	if input.Date != nil {
		date = util.DateOf(*input.Date)
	}

	updated, err := s.transactionRepo.Update(ctx, userID, id, &domain.UpdateTransactionData{
		Date:     date,
		Category: domain.ParseExpenseCategory(input.Category),
		Detail:   detail,
		Amount:   input.Amount,
		Note:     note,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int32("transaction_id", id).Msg("Failed to update expense")
		return nil, err
	}

	view := analytics.TransactionView(updated)
	s.notifier.Changed(ctx, userID, websocket.TransactionUpdated(view))
	return view, nil
}

// Delete removes an expense and refunds its amount
func (s *ExpenseService) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if _, err := s.getExpense(ctx, userID, id); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int32("transaction_id", id).Msg("Failed to delete expense")
		return err
	}

	s.notifier.Changed(ctx, userID, websocket.TransactionDeleted(map[string]int32{"id": id}))
	return nil
}

func (s *ExpenseService) getExpense(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if tx.Type != domain.TransactionTypeOut {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}
