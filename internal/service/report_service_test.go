package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/export"
	"github.com/pennywise/pennywise-backend/internal/testutil"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reportFixture struct {
	userID   uuid.UUID
	txRepo   *testutil.MockTransactionRepository
	budgets  *testutil.MockBudgetRepository
	logs     *testutil.MockSavingLogRepository
	cache    *testutil.MockReportCache
	recorder *stubRecorder
	service  *ReportService
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		userID:   uuid.New(),
		txRepo:   testutil.NewMockTransactionRepository(),
		budgets:  testutil.NewMockBudgetRepository(),
		logs:     testutil.NewMockSavingLogRepository(),
		cache:    testutil.NewMockReportCache(),
		recorder: &stubRecorder{},
	}
	f.service = NewReportService(f.txRepo, f.budgets, f.logs, testClock())
	f.service.SetCache(f.cache)
	f.service.SetRecorder(f.recorder)
	return f
}

func (f *reportFixture) seed() {
	add := func(typ domain.TransactionType, amount string, on time.Time, c *domain.ExpenseCategory) {
		f.txRepo.AddTransaction(&domain.Transaction{UserID: f.userID, AccountID: 1, Type: typ, Amount: money(amount), Date: on, Category: c})
	}
	add(domain.TransactionTypeIn, "3000", day(2026, time.October, 1), nil)
	add(domain.TransactionTypeOut, "150", day(2026, time.October, 4), categoryPtr(domain.CategoryFoodDining))
	add(domain.TransactionTypeOut, "400", day(2026, time.September, 10), categoryPtr(domain.CategoryTravel))
	add(domain.TransactionTypeOut, "50", day(2026, time.April, 20), categoryPtr(domain.CategoryFoodDining))
	add(domain.TransactionTypeOut, "999", day(2026, time.March, 31), categoryPtr(domain.CategoryShopping))
	// another user's spending never leaks in
	f.txRepo.AddTransaction(&domain.Transaction{UserID: uuid.New(), Type: domain.TransactionTypeOut, Amount: money("77"), Date: day(2026, time.October, 2)})

	f.budgets.AddBudget(&domain.Budget{UserID: f.userID, Category: "FOOD_DINING", Period: domain.BudgetPeriodMonthly, Amount: money("500")})

	f.logs.AddLog(&domain.SavingLog{UserID: f.userID, Action: domain.SavingActionSave, Amount: money("200"), Timestamp: time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC)})
	f.logs.AddLog(&domain.SavingLog{UserID: f.userID, Action: domain.SavingActionUnsave, Amount: money("50"), Timestamp: time.Date(2026, time.October, 6, 9, 0, 0, 0, time.UTC)})
}

func TestReportService_GetReport_SixMonths(t *testing.T) {
	f := newReportFixture()
	f.seed()

	report, err := f.service.GetReport(context.Background(), f.userID, "6months")
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodSixMonths, report.Period)
	assert.Equal(t, day(2026, time.April, 1), report.StartDate)
	assert.Equal(t, day(2026, time.October, 16), report.EndDate)

	require.Len(t, report.MonthlyData, 6)
	assert.Equal(t, "May", report.MonthlyData[0].Month)
	oct := report.MonthlyData[5]
	assert.Equal(t, "Oct", oct.Month)
	assert.True(t, oct.Income.Equal(money("3000")), oct.Income.String())
	assert.True(t, oct.Expenses.Equal(money("150")), oct.Expenses.String())
	assert.True(t, oct.Savings.Equal(money("150")), oct.Savings.String())

	require.Len(t, report.CategoryExpenses, 2)
	assert.Equal(t, "Travel", report.CategoryExpenses[0].Category)
	assert.Equal(t, "Food & Dining", report.CategoryExpenses[1].Category)
	assert.True(t, report.CategoryExpenses[1].Amount.Equal(money("200")))

	require.Len(t, report.BudgetComparison, 1)
	row := report.BudgetComparison[0]
	assert.Equal(t, "Food & Dining", row.Category)
	assert.True(t, row.Budgeted.Equal(money("3500")), row.Budgeted.String())
	assert.True(t, row.Spent.Equal(money("200")), row.Spent.String())

	assert.True(t, report.Metrics.TotalIncome.Equal(money("3000")))
	assert.True(t, report.Metrics.TotalExpenses.Equal(money("550")))

	require.NotNil(t, f.txRepo.LastFilters)
	assert.Equal(t, day(2026, time.April, 1), *f.txRepo.LastFilters.StartDate)
	assert.Equal(t, []string{"report"}, f.recorder.builds)
}

func TestReportService_GetReport_Year(t *testing.T) {
	f := newReportFixture()
	f.seed()

	report, err := f.service.GetReport(context.Background(), f.userID, "year")
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodYear, report.Period)
	assert.Equal(t, day(2026, time.January, 1), report.StartDate)
	require.Len(t, report.MonthlyData, 10)
	assert.Equal(t, "Jan", report.MonthlyData[0].Month)
	assert.True(t, report.MonthlyData[2].Expenses.Equal(money("999")))
}

func TestReportService_GetReport_UnknownPeriodFallsBackToSixMonths(t *testing.T) {
	f := newReportFixture()

	report, err := f.service.GetReport(context.Background(), f.userID, "fortnight")
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodSixMonths, report.Period)
	assert.Len(t, report.MonthlyData, 6)
	assert.Empty(t, report.CategoryExpenses)
	assert.Empty(t, report.BudgetComparison)
}

func TestNormalizePeriod(t *testing.T) {
	assert.Equal(t, "year", NormalizePeriod("year"))
	assert.Equal(t, "6months", NormalizePeriod("6months"))
	assert.Equal(t, "6months", NormalizePeriod(""))
	assert.Equal(t, "6months", NormalizePeriod("YEAR"))
}

func TestReportService_GetReport_ServesFromCache(t *testing.T) {
	f := newReportFixture()
	f.seed()
	ctx := context.Background()

	first, err := f.service.GetReport(ctx, f.userID, "6months")
	require.NoError(t, err)
	assert.Equal(t, 1, f.recorder.misses)

	// changes behind the cache's back are not visible until invalidation
	f.txRepo.AddTransaction(&domain.Transaction{UserID: f.userID, Type: domain.TransactionTypeOut, Amount: money("1"), Date: day(2026, time.October, 16)})

	second, err := f.service.GetReport(ctx, f.userID, "6months")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, f.recorder.hits)
	assert.Len(t, f.recorder.builds, 1)

	require.NoError(t, f.cache.InvalidateUser(ctx, f.userID))
	third, err := f.service.GetReport(ctx, f.userID, "6months")
	require.NoError(t, err)
	assert.True(t, third.Metrics.TotalExpenses.Equal(money("551")))
}

func TestReportService_GetReport_ChangeDuringBuildIsNotServed(t *testing.T) {
	f := newReportFixture()
	f.seed()
	notifier := NewChangeNotifier(f.cache)
	ctx := context.Background()

	f.txRepo.ListFn = func(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
		f.txRepo.ListFn = nil
		before, err := f.txRepo.ListByUser(ctx, userID, filters)
		// an expense commits and notifies while the report is still loading
		f.txRepo.AddTransaction(&domain.Transaction{UserID: userID, AccountID: 1, Type: domain.TransactionTypeOut, Amount: money("1000"), Date: day(2026, time.October, 15), Category: categoryPtr(domain.CategoryFoodDining)})
		notifier.Changed(ctx, userID, websocket.TransactionCreated(nil))
		return before, err
	}

	first, err := f.service.GetReport(ctx, f.userID, "6months")
	require.NoError(t, err)
	assert.True(t, first.Metrics.TotalExpenses.Equal(money("550")), first.Metrics.TotalExpenses.String())

	second, err := f.service.GetReport(ctx, f.userID, "6months")
	require.NoError(t, err)
	assert.True(t, second.Metrics.TotalExpenses.Equal(money("1550")), second.Metrics.TotalExpenses.String())
	assert.Equal(t, 2, f.recorder.misses)
	assert.Zero(t, f.recorder.hits)

	third, err := f.service.GetReport(ctx, f.userID, "6months")
	require.NoError(t, err)
	assert.Same(t, second, third)
}

func TestReportService_GetReport_GenerationFailureSkipsCache(t *testing.T) {
	f := newReportFixture()
	f.seed()
	f.cache.GenErr = errors.New("redis down")

	report, err := f.service.GetReport(context.Background(), f.userID, "6months")
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, f.cache.Reports)
	assert.Equal(t, 1, f.recorder.errors)
	assert.Zero(t, f.recorder.misses)
}

func TestReportService_GetReport_CacheFailuresDoNotFailTheReport(t *testing.T) {
	f := newReportFixture()
	f.seed()
	f.cache.GetErr = errors.New("redis down")
	f.cache.SetErr = errors.New("redis down")

	report, err := f.service.GetReport(context.Background(), f.userID, "6months")
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, 2, f.recorder.errors)
}

func TestReportService_GetReport_RepositoryError(t *testing.T) {
	f := newReportFixture()
	f.txRepo.ListFn = func(uuid.UUID, *domain.TransactionFilters) ([]*domain.Transaction, error) {
		return nil, errors.New("connection reset")
	}

	_, err := f.service.GetReport(context.Background(), f.userID, "6months")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list transactions")
	assert.Empty(t, f.cache.Reports)
}

func TestReportService_ExportXLSX(t *testing.T) {
	f := newReportFixture()
	f.seed()

	filename, data, err := f.service.ExportXLSX(context.Background(), f.userID, "6months")
	require.NoError(t, err)
	assert.Equal(t, "pennywise-report-6months-2026-10-16.xlsx", filename)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{export.SheetMonthly, export.SheetCategories, export.SheetBudgets, export.SheetSummary}, book.GetSheetList())
}

func TestReportService_Archive(t *testing.T) {
	t.Run("disabled without a store", func(t *testing.T) {
		f := newReportFixture()
		_, err := f.service.Archive(context.Background(), f.userID, "year")
		assert.ErrorIs(t, err, domain.ErrExportDisabled)
	})

	t.Run("uploads and presigns", func(t *testing.T) {
		f := newReportFixture()
		f.seed()
		store := testutil.NewMockReportStore()
		f.service.SetReportStore(store)

		archive, err := f.service.Archive(context.Background(), f.userID, "year")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(archive.Key, "reports/"+f.userID.String()+"/"))
		assert.True(t, strings.HasSuffix(archive.Key, "-pennywise-report-year-2026-10-16.xlsx"))
		assert.Contains(t, archive.URL, archive.Key)
		assert.Equal(t, testNow.Add(ArchiveURLExpiry), archive.ExpiresAt)
		obj := store.Objects[archive.Key]
		assert.NotEmpty(t, obj.Body)
		assert.Equal(t, "pennywise-report-year-2026-10-16.xlsx", obj.Filename)
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newReportFixture()
		store := testutil.NewMockReportStore()
		store.UploadErr = errors.New("access denied")
		f.service.SetReportStore(store)

		_, err := f.service.Archive(context.Background(), f.userID, "6months")
		assert.Error(t, err)
	})
}
