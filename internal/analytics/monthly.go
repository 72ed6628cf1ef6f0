package analytics

import (
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MonthlySeries buckets income, expenses and net savings per reported month of the window.
// Months without records are present with zero totals.
func MonthlySeries(transactions []*domain.Transaction, logs []*domain.SavingLog, w Window) []domain.MonthlyPoint {
	months := w.Months()
	points := make([]domain.MonthlyPoint, len(months))
	index := make(map[monthKey]int, len(months))
	for i, m := range months {
		points[i] = domain.MonthlyPoint{
			Month:    m.Month().String()[:3],
			Start:    m,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			Savings:  decimal.Zero,
		}
		index[keyOf(m)] = i
	}

	for _, tx := range transactions {
		if !w.Contains(tx.Date) {
			continue
		}
		i, ok := index[keyOf(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIn:
			points[i].Income = points[i].Income.Add(tx.Amount)
		case domain.TransactionTypeOut:
			points[i].Expenses = points[i].Expenses.Add(tx.Amount)
		}
	}

	for _, l := range logs {
		if !w.Contains(l.Timestamp) {
			continue
		}
		i, ok := index[keyOf(l.Timestamp)]
		if !ok {
			continue
		}
		switch l.Action {
		case domain.SavingActionSave:
			points[i].Savings = points[i].Savings.Add(l.Amount)
		case domain.SavingActionUnsave:
			points[i].Savings = points[i].Savings.Sub(l.Amount)
		}
	}

	return points
}
