package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period tokens accepted by the reports endpoint
const (
	PeriodSixMonths = "6months"
	PeriodYear      = "year"
)

// MonthlyPoint holds the totals of one calendar month
type MonthlyPoint struct {
	Month    string          `json:"month"`
	Start    time.Time       `json:"start"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// CategorySlice is one category's share of spending in a window
type CategorySlice struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Color      string          `json:"color"`
	Percentage string          `json:"percentage"`
}

// BudgetComparisonRow compares a budget scaled to the window against actual spending
type BudgetComparisonRow struct {
	Category  string          `json:"category"`
	Budgeted  decimal.Decimal `json:"budgeted"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// SummaryMetrics are the totals of a monthly series
type SummaryMetrics struct {
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	TotalSavings       decimal.Decimal `json:"totalSavings"`
	AvgMonthlyExpenses decimal.Decimal `json:"avgMonthlyExpenses"`
	SavingsRate        decimal.Decimal `json:"savingsRate"`
}

// Report is the full analytics payload for one period
type Report struct {
	Period           string                `json:"period"`
	StartDate        time.Time             `json:"startDate"`
	EndDate          time.Time             `json:"endDate"`
	MonthlyData      []MonthlyPoint        `json:"monthlyData"`
	CategoryExpenses []CategorySlice       `json:"categoryExpenses"`
	BudgetComparison []BudgetComparisonRow `json:"budgetComparison"`
	Metrics          SummaryMetrics        `json:"metrics"`
}

// ReportArchive points at an exported report stored in object storage
type ReportArchive struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReportKey identifies one cached report. Generation advances on every change
// to the user's data, so a report built from older data is never read back.
type ReportKey struct {
	UserID     uuid.UUID
	Period     string
	Day        time.Time
	Generation int64
}
