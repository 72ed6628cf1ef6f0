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

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category, period, amount, created_at, updated_at`

// Upsert creates a budget or replaces the amount of the existing one for the same category and period
func (r *BudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return scanBudget(r.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, period, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category, period) DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = NOW()
		RETURNING `+budgetColumns,
		pgUUID(budget.UserID), budget.Category, budget.Period, amount))
}

// GetByID retrieves a budget by ID for a user
func (r *BudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND id = $2`, pgUUID(userID), id))
}

// ListByUser retrieves all budgets of a user ordered by category
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY category, period`, pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Update rewrites a budget's category, period and amount
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	updated, err := scanBudget(r.pool.QueryRow(ctx, `
		UPDATE budgets SET category = $3, period = $4, amount = $5, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		pgUUID(budget.UserID), budget.ID, budget.Category, budget.Period, amount))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, pgUUID(userID), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		userID               pgtype.UUID
		amount               pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
		b                    domain.Budget
	)
	if err := row.Scan(&b.ID, &userID, &b.Category, &b.Period, &amount, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.UserID = pgUUIDToUUID(userID)
	b.Amount = pgNumericToDecimal(amount)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}
