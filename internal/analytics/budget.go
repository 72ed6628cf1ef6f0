package analytics

import (
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
)

// CompareBudgets scales every budget to the number of months the window touches
// and sets it against the window's spending in that category. Budgets of any
// period participate. Remaining goes negative on overspend.
func CompareBudgets(budgets []*domain.Budget, transactions []*domain.Transaction, w Window) []domain.BudgetComparisonRow {
	spent := spentByCategory(transactions, w.Contains)
	months := decimal.NewFromInt(int64(w.MonthCount()))

	rows := make([]domain.BudgetComparisonRow, 0, len(budgets))
	for _, b := range budgets {
		budgeted := b.Amount.Mul(months)
		s := spent[b.Category]
		rows = append(rows, domain.BudgetComparisonRow{
			Category:  domain.LookupCategory(b.Category).Label,
			Budgeted:  budgeted,
			Spent:     s,
			Remaining: budgeted.Sub(s),
		})
	}
	return rows
}

// BudgetStatuses reports each budget's spending in today's calendar month
func BudgetStatuses(budgets []*domain.Budget, transactions []*domain.Transaction, today time.Time) []*domain.BudgetStatus {
	spent := spentByCategory(transactions, func(t time.Time) bool {
		return util.SameMonth(t, today)
	})

	statuses := make([]*domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		s := spent[b.Category]
		utilization := decimal.Zero
		if b.Amount.IsPositive() {
			utilization = s.Mul(hundred).Div(b.Amount)
		}
		statuses = append(statuses, &domain.BudgetStatus{
			Budget:                *b,
			Spent:                 s,
			Remaining:             b.Amount.Sub(s),
			UtilizationPercentage: utilization,
		})
	}
	return statuses
}

// spentByCategory sums categorized OUT transactions keyed by category identifier
func spentByCategory(transactions []*domain.Transaction, include func(time.Time) bool) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeOut || tx.Category == nil || !include(tx.Date) {
			continue
		}
		key := string(*tx.Category)
		spent[key] = spent[key].Add(tx.Amount)
	}
	return spent
}
