package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAPITokenNotFound  = fmt.Errorf("API token %w", ErrNotFound)
	ErrTooManyAPITokens  = errors.New("maximum number of API tokens reached")
	ErrInvalidTokenScope = errors.New("invalid token scope")
)

const (
	// MaxAPITokensPerUser caps the usable tokens a user may hold
	MaxAPITokensPerUser = 10
	// MaxAPITokenLifetimeDays bounds an optional token expiry
	MaxAPITokenLifetimeDays = 365
)

// TokenScope limits what an API token may do
type TokenScope string

const (
	// ScopeRead tokens may only fetch data, e.g. a spreadsheet pulling reports
	ScopeRead TokenScope = "read"
	// ScopeReadWrite tokens may also record deposits, expenses and savings
	ScopeReadWrite TokenScope = "read_write"
)

// ParseTokenScope accepts "read" or "read_write"; empty means read_write
func ParseTokenScope(s string) (TokenScope, error) {
	switch scope := TokenScope(strings.ToLower(strings.TrimSpace(s))); scope {
	case "":
		return ScopeReadWrite, nil
	case ScopeRead, ScopeReadWrite:
		return scope, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTokenScope, s)
	}
}

// AllowsWrites reports whether the scope permits mutating requests
func (s TokenScope) AllowsWrites() bool {
	return s == ScopeReadWrite
}

// APIToken is a long-lived bearer credential for scripted access.
// Only the SHA-256 of the secret is stored.
type APIToken struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Description string
	Scope       TokenScope
	TokenHash   string
	TokenPrefix string
	LastUsedAt  *time.Time
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	RevokedAt   *time.Time
}

// Usable reports whether the token can authenticate at now
func (t *APIToken) Usable(now time.Time) bool {
	if t.RevokedAt != nil {
		return false
	}
	return t.ExpiresAt == nil || now.Before(*t.ExpiresAt)
}

// APITokenRepository defines the interface for API token persistence.
// Revoked tokens are never returned.
type APITokenRepository interface {
	Create(ctx context.Context, token *APIToken) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*APIToken, error)
	FindByHash(ctx context.Context, hash string) (*APIToken, error)
	Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}
