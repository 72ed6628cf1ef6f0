package analytics

import (
	"testing"
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// Shared fixtures for the analytics tests

var today = date(2026, time.October, 16)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func category(c domain.ExpenseCategory) *domain.ExpenseCategory {
	return &c
}

func income(amount string, on time.Time) *domain.Transaction {
	return &domain.Transaction{Type: domain.TransactionTypeIn, Date: on, Amount: dec(amount), Detail: domain.DepositDetail}
}

func expense(amount string, on time.Time, c *domain.ExpenseCategory) *domain.Transaction {
	return &domain.Transaction{Type: domain.TransactionTypeOut, Date: on, Amount: dec(amount), Category: c}
}

func savingLog(action domain.SavingAction, amount string, at time.Time) *domain.SavingLog {
	return &domain.SavingLog{Action: action, Amount: dec(amount), Timestamp: at}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}
