package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// APITokenPrefix marks API tokens apart from JWTs
const APITokenPrefix = "pw_"

// apiTokenKey holds the *domain.APIToken that authenticated the request
const apiTokenKey contextKey = "api_token"

// APITokenValidator resolves a presented secret to its token
type APITokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.APIToken, error)
}

// APITokenAuthMiddleware authenticates pw_ bearer tokens and enforces their scope
type APITokenAuthMiddleware struct {
	validator APITokenValidator
}

// NewAPITokenAuthMiddleware creates a new APITokenAuthMiddleware
func NewAPITokenAuthMiddleware(validator APITokenValidator) *APITokenAuthMiddleware {
	return &APITokenAuthMiddleware{validator: validator}
}

// Authenticate accepts only API tokens
func (m *APITokenAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			switch {
			case !ok && c.Request().Header.Get("Authorization") == "":
				return unauthorizedError(c, "Missing authorization header")
			case !ok:
				return unauthorizedError(c, "Invalid authorization header format")
			case !strings.HasPrefix(token, APITokenPrefix):
				return unauthorizedError(c, "Invalid token format")
			}
			return m.authenticateWithToken(token)(next)(c)
		}
	}
}

func (m *APITokenAuthMiddleware) authenticateWithToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			token, err := m.validator.ValidateToken(req.Context(), secret)
			if err != nil {
				if errors.Is(err, domain.ErrAPITokenNotFound) {
					return unauthorizedError(c, "Invalid, revoked or expired API token")
				}
				log.Error().Err(err).Msg("API token lookup failed")
				return unauthorizedError(c, "Token validation failed")
			}

			if isWrite(req.Method) && !token.Scope.AllowsWrites() {
				log.Debug().
					Str("token_id", token.ID.String()).
					Str("method", req.Method).
					Msg("Read-only API token attempted a write")
				return forbiddenError(c, "This API token is read-only")
			}

			c.SetRequest(req.WithContext(withAPIToken(req.Context(), token)))
			return next(c)
		}
	}
}

func withAPIToken(ctx context.Context, token *domain.APIToken) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, token.UserID)
	return context.WithValue(ctx, apiTokenKey, token)
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// GetAPIToken returns the token that authenticated the request, or nil for JWT sessions
func GetAPIToken(c echo.Context) *domain.APIToken {
	token, _ := c.Request().Context().Value(apiTokenKey).(*domain.APIToken)
	return token
}

// GetAPITokenID returns the authenticating token's ID, or uuid.Nil
func GetAPITokenID(c echo.Context) uuid.UUID {
	if token := GetAPIToken(c); token != nil {
		return token.ID
	}
	return uuid.Nil
}

// IsAPITokenAuth reports whether the request was authenticated by an API token
func IsAPITokenAuth(c echo.Context) bool {
	return GetAPIToken(c) != nil
}
