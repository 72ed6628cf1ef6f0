package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SaveGoalHandler handles the user's savings goal
type SaveGoalHandler struct {
	saveGoalService *service.SaveGoalService
}

// NewSaveGoalHandler creates a new SaveGoalHandler
func NewSaveGoalHandler(saveGoalService *service.SaveGoalService) *SaveGoalHandler {
	return &SaveGoalHandler{
		saveGoalService: saveGoalService,
	}
}

// SaveGoalRequest represents the save goal request body
type SaveGoalRequest struct {
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Description  string          `json:"description"`
	DueDate      *string         `json:"dueDate"`
}

// GetSaveGoal handles GET /api/v1/save-goal
func (h *SaveGoalHandler) GetSaveGoal(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goal, err := h.saveGoalService.Get(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get save goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// UpsertSaveGoal handles PUT /api/v1/save-goal
func (h *SaveGoalHandler) UpsertSaveGoal(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SaveGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.SaveGoalInput{
		TargetAmount: req.TargetAmount,
		Description:  req.Description,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "dueDate", Message: "Due date must be formatted as YYYY-MM-DD"},
			})
		}
		input.DueDate = &due
	}

	goal, err := h.saveGoalService.Upsert(c.Request().Context(), userID, input)
	if err != nil {
		return serviceError(c, err, userID, "Failed to save goal")
	}

	log.Info().Str("user_id", userID.String()).Str("target", goal.TargetAmount.StringFixed(2)).Msg("Save goal updated")
	return c.JSON(http.StatusOK, goal)
}

// DeleteSaveGoal handles DELETE /api/v1/save-goal
func (h *SaveGoalHandler) DeleteSaveGoal(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.saveGoalService.Delete(c.Request().Context(), userID); err != nil {
		return serviceError(c, err, userID, "Failed to delete save goal")
	}

	log.Info().Str("user_id", userID.String()).Msg("Save goal deleted")
	return c.NoContent(http.StatusNoContent)
}
