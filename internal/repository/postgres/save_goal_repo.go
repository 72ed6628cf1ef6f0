package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// SaveGoalRepository implements domain.SaveGoalRepository using PostgreSQL
type SaveGoalRepository struct {
	pool *pgxpool.Pool
}

// NewSaveGoalRepository creates a new SaveGoalRepository
func NewSaveGoalRepository(pool *pgxpool.Pool) *SaveGoalRepository {
	return &SaveGoalRepository{pool: pool}
}

const saveGoalColumns = `id, user_id, target_amount, description, due_date, created_at, updated_at`

// GetByUser retrieves the user's goal
func (r *SaveGoalRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.SaveGoal, error) {
	return scanSaveGoal(r.pool.QueryRow(ctx,
		`SELECT `+saveGoalColumns+` FROM save_goals WHERE user_id = $1`, pgUUID(userID)))
}

// Upsert creates or replaces the user's goal
func (r *SaveGoalRepository) Upsert(ctx context.Context, goal *domain.SaveGoal) (*domain.SaveGoal, error) {
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	return scanSaveGoal(r.pool.QueryRow(ctx, `
		INSERT INTO save_goals (user_id, target_amount, description, due_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			target_amount = EXCLUDED.target_amount,
			description = EXCLUDED.description,
			due_date = EXCLUDED.due_date,
			updated_at = NOW()
		RETURNING `+saveGoalColumns,
		pgUUID(goal.UserID), target, goal.Description, timePtrToPgDate(goal.DueDate)))
}

// Delete removes the user's goal
func (r *SaveGoalRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM save_goals WHERE user_id = $1`, pgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaveGoalNotFound
	}
	return nil
}

func scanSaveGoal(row pgx.Row) (*domain.SaveGoal, error) {
	var (
		userID               pgtype.UUID
		target               pgtype.Numeric
		dueDate              pgtype.Date
		createdAt, updatedAt pgtype.Timestamptz
		g                    domain.SaveGoal
	)
	if err := row.Scan(&g.ID, &userID, &target, &g.Description, &dueDate, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSaveGoalNotFound
		}
		return nil, err
	}
	g.UserID = pgUUIDToUUID(userID)
	g.TargetAmount = pgNumericToDecimal(target)
	g.DueDate = pgDateToTimePtr(dueDate)
	g.CreatedAt = createdAt.Time
	g.UpdatedAt = updatedAt.Time
	return &g, nil
}
