package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// APITokenRepository implements domain.APITokenRepository using PostgreSQL
type APITokenRepository struct {
	pool *pgxpool.Pool
}

// NewAPITokenRepository creates a new APITokenRepository
func NewAPITokenRepository(pool *pgxpool.Pool) *APITokenRepository {
	return &APITokenRepository{pool: pool}
}

const apiTokenColumns = `id, user_id, description, scope, token_hash, token_prefix, last_used_at, expires_at, created_at`

// Create inserts the token and fills in its ID and creation time
func (r *APITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO api_tokens (user_id, description, scope, token_hash, token_prefix, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		pgUUID(token.UserID), token.Description, string(token.Scope), token.TokenHash, token.TokenPrefix,
		timePtrToPgTimestamptz(token.ExpiresAt),
	).Scan(&id, &createdAt)
	if err != nil {
		return err
	}
	token.ID = pgUUIDToUUID(id)
	token.CreatedAt = createdAt.Time
	return nil
}

// ListByUser returns the user's unrevoked tokens, newest first
func (r *APITokenRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.APIToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apiTokenColumns+` FROM api_tokens
		WHERE user_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC`, pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.APIToken
	for rows.Next() {
		token, err := scanAPIToken(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, token)
	}
	return result, rows.Err()
}

// FindByHash looks a presented secret up by its hash
func (r *APITokenRepository) FindByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+apiTokenColumns+` FROM api_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`, hash)
	return scanAPIToken(row)
}

// Revoke marks an API token as revoked
func (r *APITokenRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE api_tokens SET revoked_at = NOW()
		WHERE user_id = $1 AND id = $2 AND revoked_at IS NULL`, pgUUID(userID), pgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAPITokenNotFound
	}
	return nil
}

// Touch stores the last time a token authenticated a request
func (r *APITokenRepository) Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_tokens SET last_used_at = $2 WHERE id = $1`,
		pgUUID(id), pgtype.Timestamptz{Time: usedAt, Valid: true})
	return err
}

func scanAPIToken(row pgx.Row) (*domain.APIToken, error) {
	var (
		id, userID            pgtype.UUID
		scope                 string
		lastUsedAt, expiresAt pgtype.Timestamptz
		createdAt             pgtype.Timestamptz
		token                 domain.APIToken
	)
	err := row.Scan(&id, &userID, &token.Description, &scope, &token.TokenHash, &token.TokenPrefix, &lastUsedAt, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAPITokenNotFound
		}
		return nil, err
	}
	token.ID = pgUUIDToUUID(id)
	token.UserID = pgUUIDToUUID(userID)
	token.Scope = domain.TokenScope(scope)
	token.LastUsedAt = pgTimestamptzToTimePtr(lastUsedAt)
	token.ExpiresAt = pgTimestamptzToTimePtr(expiresAt)
	token.CreatedAt = createdAt.Time
	return &token, nil
}
