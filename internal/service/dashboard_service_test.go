package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	userID   uuid.UUID
	accounts *testutil.MockAccountRepository
	txRepo   *testutil.MockTransactionRepository
	budgets  *testutil.MockBudgetRepository
	goals    *testutil.MockSaveGoalRepository
	service  *DashboardService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		userID:   uuid.New(),
		accounts: testutil.NewMockAccountRepository(),
		txRepo:   testutil.NewMockTransactionRepository(),
		budgets:  testutil.NewMockBudgetRepository(),
		goals:    testutil.NewMockSaveGoalRepository(),
	}
	f.service = NewDashboardService(f.accounts, f.txRepo, f.budgets, f.goals, testClock())
	return f
}

func TestDashboardService_GetStats_EmptyUser(t *testing.T) {
	f := newDashboardFixture()

	stats, err := f.service.GetStats(context.Background(), f.userID)
	require.NoError(t, err)

	assert.True(t, stats.TotalBalance.IsZero())
	assert.True(t, stats.MonthlySpending.IsZero())
	assert.Nil(t, stats.BudgetUsedPercentage)
	assert.False(t, stats.HasSavingsGoal)
}

func TestDashboardService_GetStats(t *testing.T) {
	f := newDashboardFixture()
	f.accounts.AddAccount(&domain.Account{ID: 1, UserID: f.userID, Balance: money("2000"), Saved: money("250")})
	f.budgets.AddBudget(&domain.Budget{UserID: f.userID, Category: "FOOD_DINING", Period: domain.BudgetPeriodMonthly, Amount: money("500")})
	f.txRepo.AddTransaction(&domain.Transaction{UserID: f.userID, Type: domain.TransactionTypeOut, Amount: money("150"), Date: day(2026, time.October, 4), Category: categoryPtr(domain.CategoryFoodDining)})
	f.txRepo.AddTransaction(&domain.Transaction{UserID: f.userID, Type: domain.TransactionTypeOut, Amount: money("200"), Date: day(2026, time.September, 12)})
	f.txRepo.AddTransaction(&domain.Transaction{UserID: f.userID, Type: domain.TransactionTypeIn, Amount: money("5000"), Date: day(2026, time.October, 1)})
	_, _ = f.goals.Upsert(context.Background(), &domain.SaveGoal{UserID: f.userID, TargetAmount: money("1000")})

	stats, err := f.service.GetStats(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, "2000.00", stats.TotalBalance.StringFixed(2))
	assert.Equal(t, "150.00", stats.MonthlySpending.StringFixed(2))
	assert.Equal(t, "200.00", stats.LastMonthSpending.StringFixed(2))
	assert.Equal(t, "-25.00", stats.MonthlySpendingChange.StringFixed(2))
	assert.Equal(t, "350.00", stats.BudgetLeft.StringFixed(2))
	require.NotNil(t, stats.BudgetUsedPercentage)
	assert.Equal(t, "30.00", stats.BudgetUsedPercentage.StringFixed(2))
	assert.True(t, stats.HasSavingsGoal)
	assert.Equal(t, "25.00", stats.SavingsProgress.StringFixed(2))

	filters := f.txRepo.LastFilters
	require.NotNil(t, filters)
	assert.Equal(t, day(2026, time.September, 1), *filters.StartDate)
	assert.Equal(t, day(2026, time.October, 31), *filters.EndDate)
	assert.Equal(t, domain.TransactionTypeOut, *filters.Type)
}

func TestDashboardService_GetStats_Errors(t *testing.T) {
	t.Run("goal lookup failure", func(t *testing.T) {
		f := newDashboardFixture()
		f.goals.GetByUserFn = func(uuid.UUID) (*domain.SaveGoal, error) {
			return nil, errors.New("timeout")
		}
		_, err := f.service.GetStats(context.Background(), f.userID)
		assert.Error(t, err)
	})

	t.Run("account listing failure", func(t *testing.T) {
		f := newDashboardFixture()
		f.accounts.ListByUserFn = func(uuid.UUID) ([]*domain.Account, error) {
			return nil, errors.New("timeout")
		}
		_, err := f.service.GetStats(context.Background(), f.userID)
		assert.ErrorContains(t, err, "list accounts")
	})
}

func TestDashboardService_RecordsBuildTime(t *testing.T) {
	f := newDashboardFixture()
	recorder := &stubRecorder{}
	f.service.SetRecorder(recorder)

	_, err := f.service.GetStats(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard"}, recorder.builds)
}

func TestDashboardService_GetRecentTransactions(t *testing.T) {
	f := newDashboardFixture()
	for i := 1; i <= 12; i++ {
		f.txRepo.AddTransaction(&domain.Transaction{UserID: f.userID, Type: domain.TransactionTypeOut, Detail: "coffee", Amount: money("3"), Date: day(2026, time.October, i)})
	}

	views, err := f.service.GetRecentTransactions(context.Background(), f.userID, domain.DefaultRecentLimit)
	require.NoError(t, err)
	require.Len(t, views, 10)
	assert.Equal(t, day(2026, time.October, 12), views[0].Date)
	assert.Equal(t, "Other", views[0].CategoryDisplayName)

	views, err = f.service.GetRecentTransactions(context.Background(), f.userID, 500)
	require.NoError(t, err)
	assert.Len(t, views, 10, "never more than ten rows")
	assert.Equal(t, int32(10), f.txRepo.LastLimit)
}

func TestClampRecentLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{7, 7},
		{10, 10},
		{11, 10},
		{100, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampRecentLimit(tt.in), "limit %d", tt.in)
	}
}
