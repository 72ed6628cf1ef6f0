package analytics

import (
	"testing"
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryBreakdown(t *testing.T) {
	w := ResolveWindow(today, domain.PeriodSixMonths)
	txs := []*domain.Transaction{
		expense("150", date(2026, time.October, 1), category(domain.CategoryFoodDining)),
		expense("50", date(2026, time.September, 12), category(domain.CategoryTransportation)),
		expense("100", date(2026, time.June, 3), category(domain.CategoryFoodDining)),
		expense("999", date(2026, time.October, 3), nil),
		income("500", date(2026, time.October, 3)),
		expense("80", date(2025, time.December, 3), category(domain.CategoryTravel)),
	}

	slices := CategoryBreakdown(txs, w)
	require.Len(t, slices, 2)

	assert.Equal(t, "Food & Dining", slices[0].Category)
	assert.Equal(t, "#ff6b6b", slices[0].Color)
	assertMoney(t, "250.00", slices[0].Amount)
	assert.Equal(t, "83.3", slices[0].Percentage)

	assert.Equal(t, "Transportation", slices[1].Category)
	assert.Equal(t, "#4ecdc4", slices[1].Color)
	assert.Equal(t, "16.7", slices[1].Percentage)
}

func TestCategoryBreakdown_TiesKeepEncounterOrder(t *testing.T) {
	w := ResolveWindow(today, domain.PeriodSixMonths)
	txs := []*domain.Transaction{
		expense("100", date(2026, time.October, 1), category(domain.CategoryShopping)),
		expense("100", date(2026, time.October, 2), category(domain.CategoryTravel)),
		expense("300", date(2026, time.October, 3), category(domain.CategoryHealthcare)),
		expense("100", date(2026, time.October, 4), category(domain.CategoryEducation)),
	}

	slices := CategoryBreakdown(txs, w)
	require.Len(t, slices, 4)
	assert.Equal(t, []string{"Healthcare", "Shopping", "Travel", "Education"},
		[]string{slices[0].Category, slices[1].Category, slices[2].Category, slices[3].Category})
}

func TestCategoryBreakdown_PercentagesNeverExceedHundred(t *testing.T) {
	w := ResolveWindow(today, domain.PeriodSixMonths)
	txs := []*domain.Transaction{
		expense("10", date(2026, time.October, 1), category(domain.CategoryShopping)),
		expense("10", date(2026, time.October, 1), category(domain.CategoryTravel)),
		expense("10", date(2026, time.October, 1), category(domain.CategoryEducation)),
	}

	slices := CategoryBreakdown(txs, w)
	sum := decimal.Zero
	for _, s := range slices {
		assert.Equal(t, "33.3", s.Percentage)
		sum = sum.Add(decimal.RequireFromString(s.Percentage))
	}
	assert.True(t, sum.LessThanOrEqual(decimal.NewFromInt(100)))
}

func TestCategoryBreakdown_ZeroTotal(t *testing.T) {
	w := ResolveWindow(today, domain.PeriodSixMonths)
	txs := []*domain.Transaction{
		expense("0", date(2026, time.October, 1), category(domain.CategoryBillsUtilities)),
	}

	slices := CategoryBreakdown(txs, w)
	require.Len(t, slices, 1)
	assert.Equal(t, "Bills & Utilities", slices[0].Category)
	assert.Equal(t, "0.0", slices[0].Percentage)
}

func TestCategoryBreakdown_UnknownCategoryUsesDefaults(t *testing.T) {
	w := ResolveWindow(today, domain.PeriodSixMonths)
	txs := []*domain.Transaction{
		expense("12", date(2026, time.October, 1), category(domain.ExpenseCategory("PETS"))),
	}

	slices := CategoryBreakdown(txs, w)
	require.Len(t, slices, 1)
	assert.Equal(t, "PETS", slices[0].Category)
	assert.Equal(t, domain.DefaultCategoryColor, slices[0].Color)
	assert.Equal(t, "100.0", slices[0].Percentage)
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	slices := CategoryBreakdown(nil, ResolveWindow(today, domain.PeriodYear))
	assert.NotNil(t, slices)
	assert.Empty(t, slices)
}
