package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)

func testClock() Clock {
	return FixedClock(testNow)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func categoryPtr(c domain.ExpenseCategory) *domain.ExpenseCategory {
	return &c
}

// linkedRepos wires account, transaction and saving log mocks so writes move balances
type linkedRepos struct {
	accounts     *testutil.MockAccountRepository
	transactions *testutil.MockTransactionRepository
	savingLogs   *testutil.MockSavingLogRepository
}

func newLinkedRepos() *linkedRepos {
	r := &linkedRepos{
		accounts:     testutil.NewMockAccountRepository(),
		transactions: testutil.NewMockTransactionRepository(),
		savingLogs:   testutil.NewMockSavingLogRepository(),
	}
	r.transactions.Accounts = r.accounts
	r.savingLogs.Accounts = r.accounts
	return r
}

// fund gives the user a primary account holding balance
func (r *linkedRepos) fund(userID uuid.UUID, balance string) *domain.Account {
	account := &domain.Account{
		ID:      1,
		UserID:  userID,
		Name:    domain.DefaultAccountName,
		Balance: money(balance),
		Saved:   decimal.Zero,
	}
	r.accounts.AddAccount(account)
	return account
}

// stubRecorder counts recorder calls
type stubRecorder struct {
	mu     sync.Mutex
	hits   int
	misses int
	errors int
	builds []string
}

func (r *stubRecorder) ObserveReportBuild(kind string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds = append(r.builds, kind)
}

func (r *stubRecorder) IncrCacheHit(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *stubRecorder) IncrCacheMiss(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

func (r *stubRecorder) IncrCacheError(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}
