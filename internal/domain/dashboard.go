package domain

import "github.com/shopspring/decimal"

// DashboardSnapshot contains the main dashboard metrics. It always compares the
// current calendar month against the previous one.
type DashboardSnapshot struct {
	TotalBalance          decimal.Decimal  `json:"totalBalance"`
	Saved                 decimal.Decimal  `json:"saved"`
	MonthlySpending       decimal.Decimal  `json:"monthlySpending"`
	LastMonthSpending     decimal.Decimal  `json:"lastMonthSpending"`
	MonthlySpendingChange decimal.Decimal  `json:"monthlySpendingChange"`
	BudgetLeft            decimal.Decimal  `json:"budgetLeft"`
	BudgetUsedPercentage  *decimal.Decimal `json:"budgetUsedPercentage"` // nil when no monthly budget exists
	SavingsGoal           decimal.Decimal  `json:"savingsGoal"`
	SavingsProgress       decimal.Decimal  `json:"savingsProgress"`
	HasSavingsGoal        bool             `json:"hasSavingsGoal"`
}
