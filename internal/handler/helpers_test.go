package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/pennywise/pennywise-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

// fixture wires every handler to in-memory repositories sharing one account store
type fixture struct {
	users        *testutil.MockUserRepository
	accounts     *testutil.MockAccountRepository
	transactions *testutil.MockTransactionRepository
	budgets      *testutil.MockBudgetRepository
	savingLogs   *testutil.MockSavingLogRepository
	saveGoals    *testutil.MockSaveGoalRepository
	tokens       *testutil.MockAPITokenRepository
	cache        *testutil.MockReportCache
	events       *testutil.MockEventPublisher

	authService     *service.AuthService
	apiTokenService *service.APITokenService
	reportService   *service.ReportService
	handlers        Handlers
}

func newFixture() *fixture {
	f := &fixture{
		users:        testutil.NewMockUserRepository(),
		accounts:     testutil.NewMockAccountRepository(),
		transactions: testutil.NewMockTransactionRepository(),
		budgets:      testutil.NewMockBudgetRepository(),
		savingLogs:   testutil.NewMockSavingLogRepository(),
		saveGoals:    testutil.NewMockSaveGoalRepository(),
		tokens:       testutil.NewMockAPITokenRepository(),
		cache:        testutil.NewMockReportCache(),
		events:       testutil.NewMockEventPublisher(),
	}
	f.transactions.Accounts = f.accounts
	f.savingLogs.Accounts = f.accounts

	clock := service.FixedClock(testNow)
	notifier := service.NewChangeNotifier(f.cache)
	notifier.SetEventPublisher(f.events)

	f.authService = service.NewAuthService(f.users, f.accounts)
	f.apiTokenService = service.NewAPITokenService(f.tokens, clock)
	f.reportService = service.NewReportService(f.transactions, f.budgets, f.savingLogs, clock)
	f.reportService.SetCache(f.cache)

	f.handlers = Handlers{
		Auth:      NewAuthHandler(f.authService),
		APIToken:  NewAPITokenHandler(f.apiTokenService),
		Account:   NewAccountHandler(service.NewAccountService(f.accounts, f.transactions, notifier, clock)),
		Expense:   NewExpenseHandler(service.NewExpenseService(f.accounts, f.transactions, notifier, clock)),
		Budget:    NewBudgetHandler(service.NewBudgetService(f.budgets, f.transactions, notifier, clock)),
		Saving:    NewSavingHandler(service.NewSavingService(f.accounts, f.savingLogs, notifier, clock)),
		SaveGoal:  NewSaveGoalHandler(service.NewSaveGoalService(f.saveGoals, notifier)),
		Report:    NewReportHandler(f.reportService),
		Dashboard: NewDashboardHandler(service.NewDashboardService(f.accounts, f.transactions, f.budgets, f.saveGoals, clock)),
	}
	return f
}

// fund gives the user a primary account holding balance
func (f *fixture) fund(userID uuid.UUID, balance string) {
	f.accounts.AddAccount(&domain.Account{
		ID:      1,
		UserID:  userID,
		Name:    domain.DefaultAccountName,
		Balance: decimal.RequireFromString(balance),
	})
}

// newContext builds an echo context for a request carrying an optional JSON body
func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withUser marks the request as authenticated for userID
func withUser(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// setupAuthContext stores validated Auth0 claims the way the JWT middleware does
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: auth0ID},
		CustomClaims: &middleware.CustomClaims{
			Email:   email,
			Name:    name,
			Picture: picture,
		},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func problem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var p ProblemDetails
	decode(t, rec, &p)
	return p
}
