package analytics

import (
	"testing"
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_EmptyUser(t *testing.T) {
	s := Dashboard(DashboardInput{Today: today})

	assertMoney(t, "0.00", s.TotalBalance)
	assertMoney(t, "0.00", s.Saved)
	assertMoney(t, "0.00", s.MonthlySpending)
	assertMoney(t, "0.00", s.LastMonthSpending)
	assertMoney(t, "0.00", s.MonthlySpendingChange)
	assertMoney(t, "0.00", s.BudgetLeft)
	assert.Nil(t, s.BudgetUsedPercentage)
	assertMoney(t, "0.00", s.SavingsGoal)
	assertMoney(t, "0.00", s.SavingsProgress)
	assert.False(t, s.HasSavingsGoal)
}

func TestDashboard_MonthlyBudgetScenario(t *testing.T) {
	s := Dashboard(DashboardInput{
		Today:        today,
		Budgets:      []*domain.Budget{budget("FOOD_DINING", domain.BudgetPeriodMonthly, "500")},
		Transactions: []*domain.Transaction{expense("150", date(2026, time.October, 4), category(domain.CategoryFoodDining))},
	})

	assertMoney(t, "350.00", s.BudgetLeft)
	require.NotNil(t, s.BudgetUsedPercentage)
	assertMoney(t, "30.00", *s.BudgetUsedPercentage)
}

func TestDashboard_SpendingChange(t *testing.T) {
	tests := []struct {
		name       string
		txs        []*domain.Transaction
		wantThis   string
		wantLast   string
		wantChange string
	}{
		{
			name:       "nothing last month",
			txs:        []*domain.Transaction{expense("40", date(2026, time.October, 1), nil)},
			wantThis:   "40.00",
			wantLast:   "0.00",
			wantChange: "100.00",
		},
		{
			name: "spending dropped",
			txs: []*domain.Transaction{
				expense("150", date(2026, time.October, 1), nil),
				expense("200", date(2026, time.September, 30), category(domain.CategoryTravel)),
			},
			wantThis:   "150.00",
			wantLast:   "200.00",
			wantChange: "-25.00",
		},
		{
			name: "ignores income and older months",
			txs: []*domain.Transaction{
				income("5000", date(2026, time.October, 1)),
				expense("70", date(2026, time.August, 31), nil),
			},
			wantThis:   "0.00",
			wantLast:   "0.00",
			wantChange: "0.00",
		},
		{
			name:       "nothing in either month",
			txs:        nil,
			wantThis:   "0.00",
			wantLast:   "0.00",
			wantChange: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Dashboard(DashboardInput{Today: today, Transactions: tt.txs})
			assertMoney(t, tt.wantThis, s.MonthlySpending)
			assertMoney(t, tt.wantLast, s.LastMonthSpending)
			assertMoney(t, tt.wantChange, s.MonthlySpendingChange)
		})
	}
}

func TestDashboard_PreviousMonthAcrossYearEnd(t *testing.T) {
	s := Dashboard(DashboardInput{
		Today: date(2026, time.January, 5),
		Transactions: []*domain.Transaction{
			expense("80", date(2025, time.December, 20), nil),
			expense("20", date(2026, time.January, 2), nil),
		},
	})

	assertMoney(t, "20.00", s.MonthlySpending)
	assertMoney(t, "80.00", s.LastMonthSpending)
	assertMoney(t, "-75.00", s.MonthlySpendingChange)
}

func TestDashboard_BudgetLeftIsClamped(t *testing.T) {
	s := Dashboard(DashboardInput{
		Today: today,
		Budgets: []*domain.Budget{
			budget("FOOD_DINING", domain.BudgetPeriodMonthly, "100"),
			budget("TRAVEL", domain.BudgetPeriodMonthly, "100"),
			budget("SHOPPING", "yearly", "5000"),
		},
		Transactions: []*domain.Transaction{expense("240", date(2026, time.October, 9), nil)},
	})

	assertMoney(t, "0.00", s.BudgetLeft)
	require.NotNil(t, s.BudgetUsedPercentage)
	assertMoney(t, "120.00", *s.BudgetUsedPercentage)
}

func TestDashboard_OnlyNonMonthlyBudgets(t *testing.T) {
	s := Dashboard(DashboardInput{
		Today:   today,
		Budgets: []*domain.Budget{budget("SHOPPING", "yearly", "5000")},
	})

	assertMoney(t, "0.00", s.BudgetLeft)
	assert.Nil(t, s.BudgetUsedPercentage)
}

func TestDashboard_ZeroMonthlyBudget(t *testing.T) {
	s := Dashboard(DashboardInput{
		Today:        today,
		Budgets:      []*domain.Budget{budget("SHOPPING", domain.BudgetPeriodMonthly, "0")},
		Transactions: []*domain.Transaction{expense("10", today, nil)},
	})

	assertMoney(t, "0.00", s.BudgetLeft)
	require.NotNil(t, s.BudgetUsedPercentage)
	assertMoney(t, "0.00", *s.BudgetUsedPercentage)
}

func TestDashboard_SavingsGoal(t *testing.T) {
	accounts := []*domain.Account{
		{ID: 1, Balance: dec("1200"), Saved: dec("100")},
		{ID: 2, Balance: dec("300.50"), Saved: dec("150")},
	}

	t.Run("progress against target", func(t *testing.T) {
		s := Dashboard(DashboardInput{
			Today:    today,
			Accounts: accounts,
			Goal:     &domain.SaveGoal{TargetAmount: dec("1000")},
		})
		assertMoney(t, "1500.50", s.TotalBalance)
		assertMoney(t, "250.00", s.Saved)
		assert.True(t, s.HasSavingsGoal)
		assertMoney(t, "1000.00", s.SavingsGoal)
		assertMoney(t, "25.00", s.SavingsProgress)
	})

	t.Run("zero target", func(t *testing.T) {
		s := Dashboard(DashboardInput{
			Today:    today,
			Accounts: accounts,
			Goal:     &domain.SaveGoal{TargetAmount: dec("0")},
		})
		assert.True(t, s.HasSavingsGoal)
		assertMoney(t, "0.00", s.SavingsProgress)
	})

	t.Run("no goal", func(t *testing.T) {
		s := Dashboard(DashboardInput{Today: today, Accounts: accounts})
		assert.False(t, s.HasSavingsGoal)
		assertMoney(t, "0.00", s.SavingsGoal)
		assertMoney(t, "0.00", s.SavingsProgress)
	})
}
