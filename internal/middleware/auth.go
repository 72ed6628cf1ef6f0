package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// UserProvider resolves the internal user for an Auth0 subject
type UserProvider interface {
	GetUserIDByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error)
}

// JWTValidator validates a raw bearer token. *validator.Validator satisfies it.
type JWTValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator    JWTValidator
	userProvider UserProvider
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domain, audience string, userProvider UserProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return newAuthMiddleware(jwtValidator, userProvider), nil
}

func newAuthMiddleware(v JWTValidator, userProvider UserProvider) *AuthMiddleware {
	return &AuthMiddleware{validator: v, userProvider: userProvider}
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the caller to a provisioned user
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return m.authenticate(true)
}

// AuthenticateIdentity validates JWT tokens without requiring the user to exist yet.
// Used by the login callback that provisions users.
func (m *AuthMiddleware) AuthenticateIdentity() echo.MiddlewareFunc {
	return m.authenticate(false)
}

func (m *AuthMiddleware) authenticate(requireUser bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				if c.Request().Header.Get("Authorization") == "" {
					return unauthorizedError(c, "Missing authorization header")
				}
				return unauthorizedError(c, "Invalid authorization header format")
			}
			return m.authenticateWithToken(token, requireUser)(next)(c)
		}
	}
}

func (m *AuthMiddleware) authenticateWithToken(token string, requireUser bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return unauthorizedError(c, "Invalid claims")
			}

			auth0ID := validatedClaims.RegisteredClaims.Subject

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, auth0ID)

			if m.userProvider != nil {
				userID, err := m.userProvider.GetUserIDByAuth0ID(ctx, auth0ID)
				switch {
				case err == nil:
					ctx = context.WithValue(ctx, UserIDKey, userID)
				case errors.Is(err, domain.ErrUserNotFound) && !requireUser:
					// provisioned by the handler
				default:
					log.Debug().Err(err).Str("auth0_id", auth0ID).Msg("User lookup failed")
					return unauthorizedError(c, "User not found")
				}
			}

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ResolveUser validates a JWT and returns the provisioned user it belongs to.
// Used where no echo middleware chain runs, such as the WebSocket handshake.
func (m *AuthMiddleware) ResolveUser(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}
	if m.userProvider == nil {
		return uuid.Nil, domain.ErrUserNotFound
	}
	return m.userProvider.GetUserIDByAuth0ID(ctx, validatedClaims.RegisteredClaims.Subject)
}

// bearerToken extracts the token of a "Bearer <token>" authorization header
func bearerToken(c echo.Context) (string, bool) {
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
