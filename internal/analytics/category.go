package analytics

import (
	"sort"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryBreakdown sums categorized OUT transactions in the window per category,
// largest first. Uncategorized spending is left out of both the slices and the total.
func CategoryBreakdown(transactions []*domain.Transaction, w Window) []domain.CategorySlice {
	totals := make(map[domain.ExpenseCategory]decimal.Decimal)
	var order []domain.ExpenseCategory
	total := decimal.Zero

	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeOut || tx.Category == nil || !w.Contains(tx.Date) {
			continue
		}
		c := *tx.Category
		if _, seen := totals[c]; !seen {
			order = append(order, c)
		}
		totals[c] = totals[c].Add(tx.Amount)
		total = total.Add(tx.Amount)
	}

	slices := make([]domain.CategorySlice, 0, len(order))
	for _, c := range order {
		amount := totals[c]
		percentage := "0.0"
		if total.IsPositive() {
			percentage = amount.Mul(hundred).Div(total).StringFixed(1)
		}
		info := domain.LookupCategory(string(c))
		slices = append(slices, domain.CategorySlice{
			Category:   info.Label,
			Amount:     amount,
			Color:      info.Color,
			Percentage: percentage,
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Amount.GreaterThan(slices[j].Amount)
	})
	return slices
}
