package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/analytics"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	saveGoalRepo    domain.SaveGoalRepository
	clock           Clock
	recorder        Recorder
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	saveGoalRepo domain.SaveGoalRepository,
	clock Clock,
) *DashboardService {
	return &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		saveGoalRepo:    saveGoalRepo,
		clock:           clock,
		recorder:        noOpRecorder{},
	}
}

// SetRecorder sets the metrics recorder
func (s *DashboardService) SetRecorder(recorder Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// GetStats returns the dashboard figures for the current and previous calendar month
func (s *DashboardService) GetStats(ctx context.Context, userID uuid.UUID) (*domain.DashboardSnapshot, error) {
	started := time.Now()
	today := s.clock.today()

	// spending covers the previous and the current month
	start := util.AddMonths(util.MonthStart(today), -1)
	end := util.MonthEnd(today)
	out := domain.TransactionTypeOut

	in := analytics.DashboardInput{Today: today}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.accountRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		in.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		txs, err := s.transactionRepo.ListByUser(gctx, userID, &domain.TransactionFilters{
			StartDate: &start,
			EndDate:   &end,
			Type:      &out,
		})
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		in.Transactions = txs
		return nil
	})
	g.Go(func() error {
		budgets, err := s.budgetRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		in.Budgets = budgets
		return nil
	})
	g.Go(func() error {
		goal, err := s.saveGoalRepo.GetByUser(gctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrSaveGoalNotFound) {
				return nil
			}
			return fmt.Errorf("get save goal: %w", err)
		}
		in.Goal = goal
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load dashboard data")
		return nil, err
	}

	snapshot := analytics.Dashboard(in)
	s.recorder.ObserveReportBuild("dashboard", time.Since(started))
	return &snapshot, nil
}

// GetRecentTransactions returns the user's latest transactions for display.
// The limit is clamped to 1..MaxRecentLimit.
func (s *DashboardService) GetRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.TransactionView, error) {
	limit = ClampRecentLimit(limit)
	txs, err := s.transactionRepo.ListRecent(ctx, userID, int32(limit))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list recent transactions")
		return nil, err
	}
	return analytics.TransactionViews(txs), nil
}

// ClampRecentLimit bounds a requested listing size
func ClampRecentLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > domain.MaxRecentLimit {
		return domain.MaxRecentLimit
	}
	return limit
}
