package analytics

import (
	"testing"

	"github.com/pennywise/pennywise-backend/internal/domain"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		points      []domain.MonthlyPoint
		wantIncome  string
		wantExpense string
		wantSavings string
		wantAvg     string
		wantRate    string
	}{
		{
			name: "totals and averages",
			points: []domain.MonthlyPoint{
				{Month: "Sep", Income: dec("1000"), Expenses: dec("300"), Savings: dec("100")},
				{Month: "Oct", Income: dec("2000"), Expenses: dec("500"), Savings: dec("-20")},
			},
			wantIncome:  "3000.00",
			wantExpense: "800.00",
			wantSavings: "80.00",
			wantAvg:     "400.00",
			wantRate:    "2.67",
		},
		{
			name: "no income gives zero savings rate",
			points: []domain.MonthlyPoint{
				{Month: "Oct", Income: dec("0"), Expenses: dec("90"), Savings: dec("50")},
				{Month: "Nov", Income: dec("0"), Expenses: dec("0"), Savings: dec("0")},
				{Month: "Dec", Income: dec("0"), Expenses: dec("0"), Savings: dec("0")},
			},
			wantIncome:  "0.00",
			wantExpense: "90.00",
			wantSavings: "50.00",
			wantAvg:     "30.00",
			wantRate:    "0.00",
		},
		{
			name:        "empty series",
			points:      nil,
			wantIncome:  "0.00",
			wantExpense: "0.00",
			wantSavings: "0.00",
			wantAvg:     "0.00",
			wantRate:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Summarize(tt.points)
			assertMoney(t, tt.wantIncome, m.TotalIncome)
			assertMoney(t, tt.wantExpense, m.TotalExpenses)
			assertMoney(t, tt.wantSavings, m.TotalSavings)
			assertMoney(t, tt.wantAvg, m.AvgMonthlyExpenses)
			assertMoney(t, tt.wantRate, m.SavingsRate)
		})
	}
}
