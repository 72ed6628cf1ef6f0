package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// TokenPrefix starts every API token
	TokenPrefix = "pw_"
	// 32 random bytes, 43 characters of base64url
	tokenRandomBytes = 32
	// characters of the secret kept for display
	tokenPrefixLength = 8
)

// CreateTokenInput describes a token to issue
type CreateTokenInput struct {
	Description   string
	Scope         string
	ExpiresInDays *int
}

// IssuedToken pairs a stored token with its plaintext secret, which exists only here
type IssuedToken struct {
	*domain.APIToken
	Secret string
}

// APITokenService issues and checks API tokens
type APITokenService struct {
	repo  domain.APITokenRepository
	clock Clock
}

// NewAPITokenService creates a new APITokenService
func NewAPITokenService(repo domain.APITokenRepository, clock Clock) *APITokenService {
	return &APITokenService{repo: repo, clock: clock}
}

// Create issues a token for the user
func (s *APITokenService) Create(ctx context.Context, userID uuid.UUID, in CreateTokenInput) (*IssuedToken, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}
	scope, err := domain.ParseTokenScope(in.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: scope must be read or read_write", domain.ErrInvalidInput)
	}

	now := s.clock.now()
	var expiresAt *time.Time
	if in.ExpiresInDays != nil {
		days := *in.ExpiresInDays
		if days < 1 || days > domain.MaxAPITokenLifetimeDays {
			return nil, fmt.Errorf("%w: expiry must be between 1 and %d days", domain.ErrInvalidInput, domain.MaxAPITokenLifetimeDays)
		}
		at := now.AddDate(0, 0, days)
		expiresAt = &at
	}

	active, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(active) >= domain.MaxAPITokensPerUser {
		return nil, domain.ErrTooManyAPITokens
	}

	raw, err := randomSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	secret := TokenPrefix + raw

	token := &domain.APIToken{
		UserID:      userID,
		Description: description,
		Scope:       scope,
		TokenHash:   hashToken(secret),
		TokenPrefix: TokenPrefix + raw[:tokenPrefixLength] + "...",
		ExpiresAt:   expiresAt,
	}
	if err := s.repo.Create(ctx, token); err != nil {
		return nil, err
	}

	log.Info().
		Str("token_id", token.ID.String()).
		Str("user_id", userID.String()).
		Str("scope", string(scope)).
		Msg("API token issued")

	return &IssuedToken{APIToken: token, Secret: secret}, nil
}

// List returns the user's usable tokens; expired ones are left out
func (s *APITokenService) List(ctx context.Context, userID uuid.UUID) ([]*domain.APIToken, error) {
	tokens, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	usable := make([]*domain.APIToken, 0, len(tokens))
	for _, t := range tokens {
		if t.Usable(now) {
			usable = append(usable, t)
		}
	}
	return usable, nil
}

// Revoke disables one of the user's tokens
func (s *APITokenService) Revoke(ctx context.Context, userID uuid.UUID, tokenID uuid.UUID) error {
	if err := s.repo.Revoke(ctx, userID, tokenID); err != nil {
		return err
	}
	log.Info().
		Str("user_id", userID.String()).
		Str("token_id", tokenID.String()).
		Msg("API token revoked")
	return nil
}

// ValidateToken resolves a presented secret to its token. Unknown, revoked and
// expired secrets all yield domain.ErrAPITokenNotFound.
func (s *APITokenService) ValidateToken(ctx context.Context, secret string) (*domain.APIToken, error) {
	if !strings.HasPrefix(secret, TokenPrefix) {
		return nil, domain.ErrAPITokenNotFound
	}

	token, err := s.repo.FindByHash(ctx, hashToken(secret))
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	if !token.Usable(now) {
		return nil, domain.ErrAPITokenNotFound
	}

	// last-used bookkeeping must not hold up the request
	go func(ctx context.Context) {
		if err := s.repo.Touch(ctx, token.ID, now); err != nil {
			log.Warn().Err(err).Str("token_id", token.ID.String()).Msg("Failed to record token use")
		}
	}(context.WithoutCancel(ctx))

	return token, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
