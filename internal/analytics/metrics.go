package analytics

import (
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize totals a monthly series
func Summarize(points []domain.MonthlyPoint) domain.SummaryMetrics {
	m := domain.SummaryMetrics{
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		TotalSavings:       decimal.Zero,
		AvgMonthlyExpenses: decimal.Zero,
		SavingsRate:        decimal.Zero,
	}
	for _, p := range points {
		m.TotalIncome = m.TotalIncome.Add(p.Income)
		m.TotalExpenses = m.TotalExpenses.Add(p.Expenses)
		m.TotalSavings = m.TotalSavings.Add(p.Savings)
	}

	if len(points) > 0 {
		m.AvgMonthlyExpenses = m.TotalExpenses.Div(decimal.NewFromInt(int64(len(points))))
	}
	if m.TotalIncome.IsPositive() {
		m.SavingsRate = m.TotalSavings.Div(m.TotalIncome).Mul(hundred)
	}
	return m
}
