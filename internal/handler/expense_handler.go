package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// ExpenseRequest represents the create and update expense request body.
// Date is optional and formatted as YYYY-MM-DD.
type ExpenseRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Detail   string          `json:"detail"`
	Amount   decimal.Decimal `json:"amount"`
	Note     *string         `json:"note"`
}

func (r ExpenseRequest) toInput() (service.ExpenseInput, []ValidationError) {
	input := service.ExpenseInput{
		Category: r.Category,
		Detail:   r.Detail,
		Amount:   r.Amount,
		Note:     r.Note,
	}
	if r.Date != "" {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return input, []ValidationError{{Field: "date", Message: "Date must be formatted as YYYY-MM-DD"}}
		}
		input.Date = &date
	}
	return input, nil
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, verrs := req.toInput()
	if verrs != nil {
		return NewValidationError(c, "Validation failed", verrs)
	}

	expense, err := h.expenseService.Create(c.Request().Context(), userID, input)
	if err != nil {
		return serviceError(c, err, userID, "Failed to create expense")
	}

	log.Info().Str("user_id", userID.String()).Int32("expense_id", expense.ID).Msg("Expense created")
	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses handles GET /api/v1/expenses with optional startDate and endDate filters
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var filters service.ExpenseFilters
	for _, p := range []struct {
		name   string
		target **time.Time
	}{
		{"startDate", &filters.StartDate},
		{"endDate", &filters.EndDate},
	} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return NewValidationError(c, "Invalid date filter", []ValidationError{
				{Field: p.name, Message: "Must be formatted as YYYY-MM-DD"},
			})
		}
		*p.target = &date
	}

	expenses, err := h.expenseService.List(c.Request().Context(), userID, filters)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get expenses")
	}
	return c.JSON(http.StatusOK, expenses)
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get expense")
	}
	return c.JSON(http.StatusOK, expense)
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, verrs := req.toInput()
	if verrs != nil {
		return NewValidationError(c, "Validation failed", verrs)
	}

	expense, err := h.expenseService.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return serviceError(c, err, userID, "Failed to update expense")
	}

	log.Info().Str("user_id", userID.String()).Int32("expense_id", id).Msg("Expense updated")
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense handles DELETE /api/v1/expenses/:id and refunds the amount
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.Delete(c.Request().Context(), userID, id); err != nil {
		return serviceError(c, err, userID, "Failed to delete expense")
	}

	log.Info().Str("user_id", userID.String()).Int32("expense_id", id).Msg("Expense deleted")
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
