package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, created_at, updated_at`

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, pgUUID(id))
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// Upsert provisions the user on first login and refreshes email and picture afterwards
func (r *UserRepository) Upsert(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (auth0_id, email, name, picture_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth0_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = COALESCE(users.name, EXCLUDED.name),
			picture_url = EXCLUDED.picture_url,
			updated_at = NOW()
		RETURNING `+userColumns,
		identity.Subject, identity.Email, stringPtrToPgText(identity.Name), stringPtrToPgText(identity.PictureURL))
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id                pgtype.UUID
		name, pictureURL  pgtype.Text
		createdAt, update pgtype.Timestamptz
		user              domain.User
	)
	if err := row.Scan(&id, &user.Auth0ID, &user.Email, &name, &pictureURL, &createdAt, &update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user.ID = pgUUIDToUUID(id)
	user.Name = pgTextToStringPtr(name)
	user.PictureURL = pgTextToStringPtr(pictureURL)
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = update.Time
	return &user, nil
}
