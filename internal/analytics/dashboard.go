package analytics

import (
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DashboardInput is everything the dashboard needs for one user
type DashboardInput struct {
	Today    time.Time
	Accounts []*domain.Account
	// Transactions must cover at least the previous and the current calendar month
	Transactions []*domain.Transaction
	Budgets      []*domain.Budget
	// Goal is nil when the user has no savings goal
	Goal *domain.SaveGoal
}

// Dashboard computes the current month snapshot
func Dashboard(in DashboardInput) domain.DashboardSnapshot {
	s := domain.DashboardSnapshot{
		TotalBalance:          decimal.Zero,
		Saved:                 decimal.Zero,
		MonthlySpending:       decimal.Zero,
		LastMonthSpending:     decimal.Zero,
		MonthlySpendingChange: decimal.Zero,
		BudgetLeft:            decimal.Zero,
		SavingsGoal:           decimal.Zero,
		SavingsProgress:       decimal.Zero,
	}

	for _, a := range in.Accounts {
		s.TotalBalance = s.TotalBalance.Add(a.Balance)
		s.Saved = s.Saved.Add(a.Saved)
	}

	current := util.MonthStart(in.Today)
	prevYear, prevMonth := util.PreviousMonth(current.Year(), int(current.Month()))
	previous := time.Date(prevYear, time.Month(prevMonth), 1, 0, 0, 0, 0, time.UTC)

	for _, tx := range in.Transactions {
		if tx.Type != domain.TransactionTypeOut {
			continue
		}
		switch {
		case util.SameMonth(tx.Date, current):
			s.MonthlySpending = s.MonthlySpending.Add(tx.Amount)
		case util.SameMonth(tx.Date, previous):
			s.LastMonthSpending = s.LastMonthSpending.Add(tx.Amount)
		}
	}

	switch {
	case s.LastMonthSpending.IsPositive():
		s.MonthlySpendingChange = s.MonthlySpending.Sub(s.LastMonthSpending).Mul(hundred).Div(s.LastMonthSpending)
	case s.MonthlySpending.IsPositive():
		s.MonthlySpendingChange = hundred
	}

	totalBudget := decimal.Zero
	hasMonthlyBudget := false
	for _, b := range in.Budgets {
		if b.Period != domain.BudgetPeriodMonthly {
			continue
		}
		hasMonthlyBudget = true
		totalBudget = totalBudget.Add(b.Amount)
	}
	if hasMonthlyBudget {
		s.BudgetLeft = decimal.Max(decimal.Zero, totalBudget.Sub(s.MonthlySpending))
		used := decimal.Zero
		if totalBudget.IsPositive() {
			used = s.MonthlySpending.Mul(hundred).Div(totalBudget)
		}
		s.BudgetUsedPercentage = &used
	}

	if in.Goal != nil {
		s.HasSavingsGoal = true
		s.SavingsGoal = in.Goal.TargetAmount
		if in.Goal.TargetAmount.IsPositive() {
			s.SavingsProgress = s.Saved.Mul(hundred).Div(in.Goal.TargetAmount)
		}
	}

	return s
}
