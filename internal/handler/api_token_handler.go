package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/service"
)

// APITokenHandler manages the caller's API tokens
type APITokenHandler struct {
	apiTokenService *service.APITokenService
}

// NewAPITokenHandler creates a new APITokenHandler
func NewAPITokenHandler(apiTokenService *service.APITokenService) *APITokenHandler {
	return &APITokenHandler{apiTokenService: apiTokenService}
}

// CreateAPITokenRequest is the body of POST /api-tokens
type CreateAPITokenRequest struct {
	Description   string `json:"description"`
	Scope         string `json:"scope"`
	ExpiresInDays *int   `json:"expiresInDays"`
}

// APITokenResponse describes a token without its secret
type APITokenResponse struct {
	ID          uuid.UUID         `json:"id"`
	Description string            `json:"description"`
	Scope       domain.TokenScope `json:"scope"`
	TokenPrefix string            `json:"tokenPrefix"`
	CreatedAt   time.Time         `json:"createdAt"`
	LastUsedAt  *time.Time        `json:"lastUsedAt,omitempty"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`
}

// CreateAPITokenResponse carries the secret, which is never shown again
type CreateAPITokenResponse struct {
	APITokenResponse
	Token   string `json:"token"`
	Warning string `json:"warning"`
}

func toAPITokenResponse(t *domain.APIToken) APITokenResponse {
	return APITokenResponse{
		ID:          t.ID,
		Description: t.Description,
		Scope:       t.Scope,
		TokenPrefix: t.TokenPrefix,
		CreatedAt:   t.CreatedAt,
		LastUsedAt:  t.LastUsedAt,
		ExpiresAt:   t.ExpiresAt,
	}
}

// CreateAPIToken handles POST /api/v1/api-tokens
func (h *APITokenHandler) CreateAPIToken(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateAPITokenRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	issued, err := h.apiTokenService.Create(c.Request().Context(), userID, service.CreateTokenInput{
		Description:   req.Description,
		Scope:         req.Scope,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTooManyAPITokens) {
			return NewValidationError(c, fmt.Sprintf("Maximum number of API tokens reached (%d)", domain.MaxAPITokensPerUser), nil)
		}
		return serviceError(c, err, userID, "Failed to create API token")
	}

	return c.JSON(http.StatusCreated, CreateAPITokenResponse{
		APITokenResponse: toAPITokenResponse(issued.APIToken),
		Token:            issued.Secret,
		Warning:          "Copy this token now. It will not be shown again.",
	})
}

// GetAPITokens handles GET /api/v1/api-tokens
func (h *APITokenHandler) GetAPITokens(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	tokens, err := h.apiTokenService.List(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err, userID, "Failed to get API tokens")
	}

	resp := make([]APITokenResponse, len(tokens))
	for i, t := range tokens {
		resp[i] = toAPITokenResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// RevokeAPIToken handles DELETE /api/v1/api-tokens/:id
func (h *APITokenHandler) RevokeAPIToken(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid token ID", nil)
	}

	if err := h.apiTokenService.Revoke(c.Request().Context(), userID, tokenID); err != nil {
		return serviceError(c, err, userID, "Failed to revoke API token")
	}
	return c.NoContent(http.StatusNoContent)
}
