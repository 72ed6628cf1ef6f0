package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/analytics"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	maxBudgetCategoryLength = 32
	maxBudgetPeriodLength   = 20
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	notifier        *ChangeNotifier
	clock           Clock
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	notifier *ChangeNotifier,
	clock Clock,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
		clock:           clock,
	}
}

// BudgetInput holds the input for creating or updating a budget
type BudgetInput struct {
	Category string
	Period   string
	Amount   decimal.Decimal
}

// normalize resolves the category through the catalog and defaults the period.
// Text outside the catalog is kept as typed.
func (in BudgetInput) normalize() (string, string, error) {
	if !in.Amount.IsPositive() {
		return "", "", domain.ErrInvalidAmount
	}

	category := strings.TrimSpace(in.Category)
	if c := domain.ParseExpenseCategory(category); c != nil {
		category = string(*c)
	}
	if category == "" {
		return "", "", domain.ErrInvalidCategory
	}
	if len(category) > maxBudgetCategoryLength {
		return "", "", fmt.Errorf("%w: category exceeds %d characters", domain.ErrInvalidInput, maxBudgetCategoryLength)
	}

	period := strings.ToLower(strings.TrimSpace(in.Period))
	if period == "" {
		period = domain.BudgetPeriodMonthly
	}
	if len(period) > maxBudgetPeriodLength {
		return "", "", fmt.Errorf("%w: period exceeds %d characters", domain.ErrInvalidInput, maxBudgetPeriodLength)
	}
	return category, period, nil
}

// Upsert creates a budget or replaces the amount of the existing one with the same category and period
func (s *BudgetService) Upsert(ctx context.Context, userID uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	category, period, err := input.normalize()
	if err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.Upsert(ctx, &domain.Budget{
		UserID:   userID,
		Category: category,
		Period:   period,
		Amount:   input.Amount,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("category", category).Msg("Failed to upsert budget")
		return nil, err
	}

	s.notifier.Changed(ctx, userID, websocket.BudgetUpdated(budget))
	return budget, nil
}

// List returns every budget with its current month spending
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]*domain.BudgetStatus, error) {
	budgets, txs, err := s.loadWithMonthSpending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.BudgetStatuses(budgets, txs, s.clock.today()), nil
}

// Get returns one budget with its current month spending
func (s *BudgetService) Get(ctx context.Context, userID uuid.UUID, id int32) (*domain.BudgetStatus, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	txs, err := s.monthSpending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.BudgetStatuses([]*domain.Budget{budget}, txs, s.clock.today())[0], nil
}

// Update rewrites a budget's category, period and amount
func (s *BudgetService) Update(ctx context.Context, userID uuid.UUID, id int32, input BudgetInput) (*domain.Budget, error) {
	category, period, err := input.normalize()
	if err != nil {
		return nil, err
	}

	existing, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	existing.Category = category
	existing.Period = period
	existing.Amount = input.Amount

	updated, err := s.budgetRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.notifier.Changed(ctx, userID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// Delete removes a budget
func (s *BudgetService) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if err := s.budgetRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.notifier.Changed(ctx, userID, websocket.BudgetDeleted(map[string]int32{"id": id}))
	return nil
}

func (s *BudgetService) loadWithMonthSpending(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, []*domain.Transaction, error) {
	var (
		budgets []*domain.Budget
		txs     []*domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.monthSpending(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load budgets")
		return nil, nil, err
	}
	return budgets, txs, nil
}

func (s *BudgetService) monthSpending(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	today := s.clock.today()
	start := util.MonthStart(today)
	end := util.MonthEnd(today)
	out := domain.TransactionTypeOut
	return s.transactionRepo.ListByUser(ctx, userID, &domain.TransactionFilters{
		StartDate: &start,
		EndDate:   &end,
		Type:      &out,
	})
}
