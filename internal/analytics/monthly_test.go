package analytics

import (
	"testing"
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlySeries_EmptyInputsYieldZeroMonths(t *testing.T) {
	points := MonthlySeries(nil, nil, ResolveWindow(today, domain.PeriodSixMonths))

	require.Len(t, points, 6)
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Month
		assertMoney(t, "0.00", p.Income)
		assertMoney(t, "0.00", p.Expenses)
		assertMoney(t, "0.00", p.Savings)
	}
	assert.Equal(t, []string{"May", "Jun", "Jul", "Aug", "Sep", "Oct"}, labels)
}

func TestMonthlySeries_RoutesTransactionsByTypeAndMonth(t *testing.T) {
	food := category(domain.CategoryFoodDining)
	txs := []*domain.Transaction{
		income("1000", date(2026, time.October, 2)),
		expense("200", date(2026, time.October, 5), food),
		expense("75.50", date(2026, time.September, 30), nil),
		income("300", date(2026, time.May, 1)),
		// Inside the window start month but not one of the six reported months
		expense("50", date(2026, time.April, 10), food),
		// Outside the window
		expense("30", date(2025, time.October, 5), food),
		expense("45", date(2026, time.October, 20), food),
	}

	points := MonthlySeries(txs, nil, ResolveWindow(today, domain.PeriodSixMonths))
	require.Len(t, points, 6)

	may, sep, oct := points[0], points[4], points[5]
	assertMoney(t, "300.00", may.Income)
	assertMoney(t, "0.00", may.Expenses)
	assertMoney(t, "75.50", sep.Expenses)
	assertMoney(t, "1000.00", oct.Income)
	assertMoney(t, "200.00", oct.Expenses)
}

func TestMonthlySeries_NetSavings(t *testing.T) {
	logs := []*domain.SavingLog{
		savingLog(domain.SavingActionSave, "200", time.Date(2026, time.October, 3, 9, 0, 0, 0, time.UTC)),
		savingLog(domain.SavingActionUnsave, "50", time.Date(2026, time.October, 10, 21, 15, 0, 0, time.UTC)),
		savingLog(domain.SavingActionUnsave, "20", time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)),
		savingLog(domain.SavingActionSave, "999", time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)),
	}

	points := MonthlySeries(nil, logs, ResolveWindow(today, domain.PeriodSixMonths))
	require.Len(t, points, 6)

	assertMoney(t, "150.00", points[5].Savings)
	assertMoney(t, "-20.00", points[3].Savings)
	assertMoney(t, "0.00", points[0].Savings)
}

func TestMonthlySeries_YearWindowAcrossLabels(t *testing.T) {
	w := ResolveWindow(date(2026, time.February, 10), domain.PeriodSixMonths)
	points := MonthlySeries(nil, nil, w)

	require.Len(t, points, 6)
	assert.Equal(t, "Sep", points[0].Month)
	assert.Equal(t, 2025, points[0].Start.Year())
	assert.Equal(t, "Jan", points[4].Month)
	assert.Equal(t, 2026, points[4].Start.Year())
	assert.Equal(t, "Feb", points[5].Month)
}

func TestMonthlySeries_SumsMatchDirectTotals(t *testing.T) {
	shopping := category(domain.CategoryShopping)
	var txs []*domain.Transaction
	var logs []*domain.SavingLog
	for d := date(2025, time.December, 1); d.Before(date(2026, time.November, 30)); d = d.AddDate(0, 0, 9) {
		txs = append(txs, income("120.25", d), expense("33.10", d, shopping), expense("7", d, nil))
		logs = append(logs, savingLog(domain.SavingActionSave, "15", d), savingLog(domain.SavingActionUnsave, "4.5", d.Add(5*time.Hour)))
	}

	for _, period := range []string{domain.PeriodSixMonths, domain.PeriodYear} {
		t.Run(period, func(t *testing.T) {
			w := ResolveWindow(today, period)
			points := MonthlySeries(txs, logs, w)
			reported := Window{Start: points[0].Start, End: w.End}

			wantIncome, wantExpenses, wantSavings := decimal.Zero, decimal.Zero, decimal.Zero
			for _, tx := range txs {
				if !reported.Contains(tx.Date) {
					continue
				}
				if tx.Type == domain.TransactionTypeIn {
					wantIncome = wantIncome.Add(tx.Amount)
				} else {
					wantExpenses = wantExpenses.Add(tx.Amount)
				}
			}
			for _, l := range logs {
				if !reported.Contains(l.Timestamp) {
					continue
				}
				if l.Action == domain.SavingActionSave {
					wantSavings = wantSavings.Add(l.Amount)
				} else {
					wantSavings = wantSavings.Sub(l.Amount)
				}
			}

			m := Summarize(points)
			assert.True(t, wantIncome.Equal(m.TotalIncome), "income %s != %s", wantIncome, m.TotalIncome)
			assert.True(t, wantExpenses.Equal(m.TotalExpenses), "expenses %s != %s", wantExpenses, m.TotalExpenses)
			assert.True(t, wantSavings.Equal(m.TotalSavings), "savings %s != %s", wantSavings, m.TotalSavings)
		})
	}
}
