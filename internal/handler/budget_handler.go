package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// BudgetRequest represents the budget request body. Period defaults to monthly.
type BudgetRequest struct {
	Category string          `json:"category"`
	Period   string          `json:"period"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r BudgetRequest) toInput() service.BudgetInput {
	return service.BudgetInput{Category: r.Category, Period: r.Period, Amount: r.Amount}
}

// UpsertBudget handles POST /api/v1/budgets. A budget with the same category and
// period has its amount replaced.
func (h *BudgetHandler) UpsertBudget(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgetService.Upsert(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return serviceError(c, err, userID, "Failed to save budget")
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("budget_id", budget.ID).
		Str("category", budget.Category).
		Str("period", budget.Period).
		Msg("Budget saved")
	return c.JSON(http.StatusOK, budget)
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgets, err := h.budgetService.List(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get budgets")
	}
	return c.JSON(http.StatusOK, budgets)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get budget")
	}
	return c.JSON(http.StatusOK, budget)
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgetService.Update(c.Request().Context(), userID, id, req.toInput())
	if err != nil {
		return serviceError(c, err, userID, "Failed to update budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", id).Msg("Budget updated")
	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.Delete(c.Request().Context(), userID, id); err != nil {
		return serviceError(c, err, userID, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", id).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}
