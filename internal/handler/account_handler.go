package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/analytics"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account and deposit HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	Saved     string `json:"saved"`
	Available string `json:"available"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// DepositRequest represents the deposit request body
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	accounts, err := h.accountService.GetAccounts(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get accounts")
		return NewInternalError(c, "Failed to get accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = toAccountResponse(account)
	}
	return c.JSON(http.StatusOK, response)
}

// Deposit handles POST /api/v1/deposits
func (h *AccountHandler) Deposit(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req DepositRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tx, err := h.accountService.Deposit(c.Request().Context(), userID, service.DepositInput{
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return serviceError(c, err, userID, "Failed to record deposit")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", tx.ID).Str("amount", tx.Amount.StringFixed(2)).Msg("Deposit recorded")
	return c.JSON(http.StatusCreated, analytics.TransactionView(tx))
}

func toAccountResponse(account *domain.Account) AccountResponse {
	if account == nil {
		return AccountResponse{}
	}
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance.StringFixed(2),
		Saved:     account.Saved.StringFixed(2),
		Available: account.Balance.Sub(account.Saved).StringFixed(2),
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}
}
