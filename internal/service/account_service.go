package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/analytics"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountService handles account balances and deposits
type AccountService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	notifier        *ChangeNotifier
	clock           Clock
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	notifier *ChangeNotifier,
	clock Clock,
) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
		clock:           clock,
	}
}

// DepositInput holds the input for a deposit
type DepositInput struct {
	Amount      decimal.Decimal
	Description string
}

// GetAccounts returns the user's accounts, creating the primary one on first use
func (s *AccountService) GetAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return accounts, nil
	}

	primary, err := s.accountRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create primary account")
		return nil, err
	}
	return []*domain.Account{primary}, nil
}

// Deposit records income on the primary account dated today
func (s *AccountService) Deposit(ctx context.Context, userID uuid.UUID, input DepositInput) (*domain.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidInput, domain.MaxNoteLength)
	}

	account, err := s.accountRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		UserID:    userID,
		AccountID: account.ID,
		Type:      domain.TransactionTypeIn,
		Date:      s.clock.today(),
		Detail:    domain.DepositDetail,
		Amount:    input.Amount,
	}
	if description != "" {
		tx.Note = &description
	}

	created, err := s.transactionRepo.Create(ctx, tx)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to record deposit")
		return nil, err
	}

	s.notifier.Changed(ctx, userID, websocket.TransactionCreated(analytics.TransactionView(created)))
	return created, nil
}
