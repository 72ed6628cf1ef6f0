package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// SaveGoalService manages the user's single savings target
type SaveGoalService struct {
	saveGoalRepo domain.SaveGoalRepository
	notifier     *ChangeNotifier
}

// NewSaveGoalService creates a new SaveGoalService
func NewSaveGoalService(saveGoalRepo domain.SaveGoalRepository, notifier *ChangeNotifier) *SaveGoalService {
	return &SaveGoalService{saveGoalRepo: saveGoalRepo, notifier: notifier}
}

// SaveGoalInput holds the input for setting the goal
type SaveGoalInput struct {
	TargetAmount decimal.Decimal
	Description  string
	DueDate      *time.Time
}

// Get returns the user's goal or ErrSaveGoalNotFound
func (s *SaveGoalService) Get(ctx context.Context, userID uuid.UUID) (*domain.SaveGoal, error) {
	return s.saveGoalRepo.GetByUser(ctx, userID)
}

// Upsert creates the goal or replaces the existing one
func (s *SaveGoalService) Upsert(ctx context.Context, userID uuid.UUID, input SaveGoalInput) (*domain.SaveGoal, error) {
	if !input.TargetAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}

	goal := &domain.SaveGoal{
		UserID:       userID,
		TargetAmount: input.TargetAmount,
		Description:  description,
	}
	if input.DueDate != nil {
		due := util.DateOf(*input.DueDate)
		goal.DueDate = &due
	}

	saved, err := s.saveGoalRepo.Upsert(ctx, goal)
	if err != nil {
		return nil, err
	}
	s.notifier.Changed(ctx, userID, websocket.SaveGoalUpdated(saved))
	return saved, nil
}

// Delete removes the user's goal
func (s *SaveGoalService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.saveGoalRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.notifier.Changed(ctx, userID, websocket.SaveGoalDeleted(nil))
	return nil
}
