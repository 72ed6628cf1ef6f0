package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	stats, err := h.dashboardService.GetStats(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// GetRecentTransactions handles GET /api/v1/dashboard/transactions?limit=10.
// The limit is clamped to 1..10.
func (h *DashboardHandler) GetRecentTransactions(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	limit := domain.DefaultRecentLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return NewValidationError(c, "Invalid limit format", []ValidationError{{Field: "limit", Message: "Must be a valid integer"}})
		}
		limit = parsed
	}

	transactions, err := h.dashboardService.GetRecentTransactions(c.Request().Context(), userID, limit)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get recent transactions")
	}
	return c.JSON(http.StatusOK, transactions)
}
