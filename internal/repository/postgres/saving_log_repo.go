package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// SavingLogRepository implements domain.SavingLogRepository using PostgreSQL
type SavingLogRepository struct {
	pool *pgxpool.Pool
}

// NewSavingLogRepository creates a new SavingLogRepository
func NewSavingLogRepository(pool *pgxpool.Pool) *SavingLogRepository {
	return &SavingLogRepository{pool: pool}
}

const savingLogColumns = `id, user_id, account_id, action, amount, description, logged_at`

// Create records a saving action and moves the account's saved amount in the same transaction
func (r *SavingLogRepository) Create(ctx context.Context, log *domain.SavingLog) (*domain.SavingLog, error) {
	amount, err := decimalToPgNumeric(log.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	funds, err := lockAccount(ctx, tx, log.UserID, log.AccountID)
	if err != nil {
		return nil, err
	}

	saved := funds.Saved
	switch log.Action {
	case domain.SavingActionSave:
		if funds.Balance.LessThan(log.Amount) {
			return nil, domain.ErrInsufficientBalance
		}
		saved = saved.Add(log.Amount)
	case domain.SavingActionUnsave:
		if funds.Saved.LessThan(log.Amount) {
			return nil, domain.ErrInsufficientSaved
		}
		saved = saved.Sub(log.Amount)
	default:
		return nil, fmt.Errorf("%w: unknown saving action %q", domain.ErrInvalidInput, log.Action)
	}

	if err := writeFunds(ctx, tx, log.AccountID, funds.Balance, saved); err != nil {
		return nil, err
	}

	created, err := scanSavingLog(tx.QueryRow(ctx, `
		INSERT INTO saving_logs (user_id, account_id, action, amount, description, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+savingLogColumns,
		pgUUID(log.UserID), log.AccountID, string(log.Action), amount, log.Description,
		pgtype.Timestamptz{Time: log.Timestamp, Valid: !log.Timestamp.IsZero()}))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// ListByUser retrieves the user's saving history, newest first
func (r *SavingLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SavingLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+savingLogColumns+` FROM saving_logs WHERE user_id = $1 ORDER BY logged_at DESC, id DESC`, pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.SavingLog
	for rows.Next() {
		l, err := scanSavingLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func scanSavingLog(row pgx.Row) (*domain.SavingLog, error) {
	var (
		userID   pgtype.UUID
		action   string
		amount   pgtype.Numeric
		loggedAt pgtype.Timestamptz
		l        domain.SavingLog
	)
	if err := row.Scan(&l.ID, &userID, &l.AccountID, &action, &amount, &l.Description, &loggedAt); err != nil {
		return nil, err
	}
	l.UserID = pgUUIDToUUID(userID)
	l.Action = domain.SavingAction(action)
	l.Amount = pgNumericToDecimal(amount)
	l.Timestamp = loggedAt.Time
	return &l, nil
}
