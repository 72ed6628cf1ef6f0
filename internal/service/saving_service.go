package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SavingService moves money in and out of the saved part of the primary account
type SavingService struct {
	accountRepo   domain.AccountRepository
	savingLogRepo domain.SavingLogRepository
	notifier      *ChangeNotifier
	clock         Clock
}

// NewSavingService creates a new SavingService
func NewSavingService(
	accountRepo domain.AccountRepository,
	savingLogRepo domain.SavingLogRepository,
	notifier *ChangeNotifier,
	clock Clock,
) *SavingService {
	return &SavingService{
		accountRepo:   accountRepo,
		savingLogRepo: savingLogRepo,
		notifier:      notifier,
		clock:         clock,
	}
}

// SavingInput holds the input for a save or unsave
type SavingInput struct {
	Amount      decimal.Decimal
	Description string
}

// Save marks part of the balance as saved. The balance must cover the amount.
func (s *SavingService) Save(ctx context.Context, userID uuid.UUID, input SavingInput) (*domain.SavingLogView, error) {
	return s.record(ctx, userID, domain.SavingActionSave, input)
}

// Unsave releases part of the saved amount back to spendable balance
func (s *SavingService) Unsave(ctx context.Context, userID uuid.UUID, input SavingInput) (*domain.SavingLogView, error) {
	return s.record(ctx, userID, domain.SavingActionUnsave, input)
}

// GetLogs returns the user's saving history, newest first
func (s *SavingService) GetLogs(ctx context.Context, userID uuid.UUID) ([]*domain.SavingLogView, error) {
	logs, err := s.savingLogRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.SavingLogView, len(logs))
	for i, l := range logs {
		views[i] = l.View()
	}
	return views, nil
}

func (s *SavingService) record(ctx context.Context, userID uuid.UUID, action domain.SavingAction, input SavingInput) (*domain.SavingLogView, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}

	account, err := s.accountRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.savingLogRepo.Create(ctx, &domain.SavingLog{
		UserID:      userID,
		AccountID:   account.ID,
		Action:      action,
		Amount:      input.Amount,
		Description: description,
		Timestamp:   s.clock.now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Str("action", string(action)).Msg("Saving action rejected")
		return nil, err
	}

	view := created.View()
	event := websocket.MoneySaved(view)
	if action == domain.SavingActionUnsave {
		event = websocket.MoneyUnsaved(view)
	}
	s.notifier.Changed(ctx, userID, event)
	return view, nil
}
