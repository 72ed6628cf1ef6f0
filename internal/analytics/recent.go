package analytics

import "github.com/pennywise/pennywise-backend/internal/domain"

const (
	depositDisplayName       = "Deposit"
	uncategorizedDisplayName = "Other"
	moneyIcon                = "💰"
)

// TransactionView decorates a transaction with its category name and icon
func TransactionView(tx *domain.Transaction) *domain.TransactionView {
	v := &domain.TransactionView{
		ID:              tx.ID,
		Type:            tx.Type,
		Date:            tx.Date,
		ExpenseCategory: tx.Category,
		Detail:          tx.Detail,
		Amount:          tx.Amount,
		Note:            tx.Note,
	}
	switch {
	case tx.Type == domain.TransactionTypeIn:
		v.CategoryDisplayName = depositDisplayName
		v.Icon = moneyIcon
	case tx.Category == nil:
		v.CategoryDisplayName = uncategorizedDisplayName
		v.Icon = moneyIcon
	default:
		info := tx.Category.Info()
		v.CategoryDisplayName = info.Label
		v.Icon = info.Icon
	}
	return v
}

// TransactionViews decorates each transaction, keeping order
func TransactionViews(transactions []*domain.Transaction) []*domain.TransactionView {
	views := make([]*domain.TransactionView, len(transactions))
	for i, tx := range transactions {
		views[i] = TransactionView(tx)
	}
	return views
}
