package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SavingHandler handles save, unsave and saving log requests
type SavingHandler struct {
	savingService *service.SavingService
}

// NewSavingHandler creates a new SavingHandler
func NewSavingHandler(savingService *service.SavingService) *SavingHandler {
	return &SavingHandler{
		savingService: savingService,
	}
}

// SavingRequest represents the save and unsave request body
type SavingRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Save handles POST /api/v1/savings/save
func (h *SavingHandler) Save(c echo.Context) error {
	return h.record(c, domain.SavingActionSave, h.savingService.Save)
}

// Unsave handles POST /api/v1/savings/unsave
func (h *SavingHandler) Unsave(c echo.Context) error {
	return h.record(c, domain.SavingActionUnsave, h.savingService.Unsave)
}

type savingFunc func(ctx context.Context, userID uuid.UUID, input service.SavingInput) (*domain.SavingLogView, error)

func (h *SavingHandler) record(c echo.Context, action domain.SavingAction, fn savingFunc) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SavingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	entry, err := fn(c.Request().Context(), userID, service.SavingInput{
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return serviceError(c, err, userID, "Failed to update savings")
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("action", string(action)).
		Str("amount", entry.Amount.StringFixed(2)).
		Msg("Savings updated")
	return c.JSON(http.StatusCreated, entry)
}

// GetLogs handles GET /api/v1/savings/logs, newest first
func (h *SavingHandler) GetLogs(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	logs, err := h.savingService.GetLogs(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get saving logs")
	}
	return c.JSON(http.StatusOK, logs)
}
