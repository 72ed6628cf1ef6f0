package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, accountRepo domain.AccountRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Account   *domain.Account
	IsNewUser bool
}

// AuthenticateUser runs after the Auth0 login. It provisions the user and
// their primary account on first login.
func (s *AuthService) AuthenticateUser(ctx context.Context, identity domain.Identity) (*AuthResult, error) {
	user, err := s.userRepo.Upsert(ctx, identity)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", identity.Subject).Msg("Failed to upsert user")
		return nil, err
	}

	existing, err := s.accountRepo.ListByUser(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to get accounts")
		return nil, err
	}
	if len(existing) > 0 {
		log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
		return &AuthResult{User: user, Account: existing[0]}, nil
	}

	account, err := s.accountRepo.GetOrCreatePrimary(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create primary account")
		return nil, err
	}
	log.Info().Str("user_id", user.ID.String()).Msg("Created new user with primary account")
	return &AuthResult{User: user, Account: account, IsNewUser: true}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(ctx, auth0ID)
}

// GetUserIDByAuth0ID resolves the internal user ID for an Auth0 subject
func (s *AuthService) GetUserIDByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
