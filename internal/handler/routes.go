package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Auth      *AuthHandler
	APIToken  *APITokenHandler
	Account   *AccountHandler
	Expense   *ExpenseHandler
	Budget    *BudgetHandler
	Saving    *SavingHandler
	SaveGoal  *SaveGoalHandler
	Report    *ReportHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes sets up all API routes. Data routes accept session JWTs and API
// tokens; identity and token management require a session. rateLimit applies to
// API token requests only.
func RegisterRoutes(e *echo.Echo, auth *middleware.DualAuthMiddleware, rateLimit echo.MiddlewareFunc, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.GET("/categories", GetCategories)

	// Auth routes (session only; callback runs before the user exists)
	authGroup := api.Group("/auth")
	authGroup.POST("/callback", h.Auth.Callback, auth.JWTIdentityOnly())
	authGroup.GET("/me", h.Auth.Me, auth.JWTOnly())
	authGroup.POST("/logout", h.Auth.Logout, auth.JWTIdentityOnly())

	// API token management (session only)
	tokens := api.Group("/api-tokens")
	tokens.Use(auth.JWTOnly())
	tokens.POST("", h.APIToken.CreateAPIToken)
	tokens.GET("", h.APIToken.GetAPITokens)
	tokens.DELETE("/:id", h.APIToken.RevokeAPIToken)

	data := api.Group("")
	data.Use(auth.Authenticate(), rateLimit)

	data.GET("/accounts", h.Account.GetAccounts)
	data.POST("/deposits", h.Account.Deposit)

	expenses := data.Group("/expenses")
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PUT("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	budgets := data.Group("/budgets")
	budgets.POST("", h.Budget.UpsertBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	savings := data.Group("/savings")
	savings.POST("/save", h.Saving.Save)
	savings.POST("/unsave", h.Saving.Unsave)
	savings.GET("/logs", h.Saving.GetLogs)

	saveGoal := data.Group("/save-goal")
	saveGoal.GET("", h.SaveGoal.GetSaveGoal)
	saveGoal.PUT("", h.SaveGoal.UpsertSaveGoal)
	saveGoal.DELETE("", h.SaveGoal.DeleteSaveGoal)

	reports := data.Group("/reports")
	reports.GET("", h.Report.GetReport)
	reports.GET("/export", h.Report.DownloadReport)
	reports.POST("/export", h.Report.ArchiveReport)

	dashboard := data.Group("/dashboard")
	dashboard.GET("/stats", h.Dashboard.GetStats)
	dashboard.GET("/transactions", h.Dashboard.GetRecentTransactions)
}
