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
	"github.com/shopspring/decimal"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, name, balance, saved, created_at, updated_at`

// ListByUser retrieves all accounts of a user, oldest first
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id`, pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

// GetOrCreatePrimary returns the user's oldest account, creating it when the user has none.
// A per-user advisory lock keeps concurrent first requests from creating two accounts.
func (r *AccountRepository) GetOrCreatePrimary(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID.String()); err != nil {
		return nil, fmt.Errorf("failed to lock user accounts: %w", err)
	}

	account, err := scanAccount(tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id LIMIT 1`, pgUUID(userID)))
	if errors.Is(err, domain.ErrAccountNotFound) {
		account, err = scanAccount(tx.QueryRow(ctx,
			`INSERT INTO accounts (user_id, name) VALUES ($1, $2) RETURNING `+accountColumns,
			pgUUID(userID), domain.DefaultAccountName))
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		userID               pgtype.UUID
		balance, saved       pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
		account              domain.Account
	)
	if err := row.Scan(&account.ID, &userID, &account.Name, &balance, &saved, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	account.UserID = pgUUIDToUUID(userID)
	account.Balance = pgNumericToDecimal(balance)
	account.Saved = pgNumericToDecimal(saved)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return &account, nil
}

// accountFunds is the locked money state of one account inside a database transaction
type accountFunds struct {
	Balance decimal.Decimal
	Saved   decimal.Decimal
}

// lockAccount reads an account's funds with a row lock held until tx ends
func lockAccount(ctx context.Context, tx pgx.Tx, userID uuid.UUID, accountID int32) (*accountFunds, error) {
	var balance, saved pgtype.Numeric
	err := tx.QueryRow(ctx,
		`SELECT balance, saved FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		accountID, pgUUID(userID)).Scan(&balance, &saved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &accountFunds{Balance: pgNumericToDecimal(balance), Saved: pgNumericToDecimal(saved)}, nil
}

// adjustBalance applies delta to a locked account's balance
func adjustBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, accountID int32, delta decimal.Decimal) error {
	funds, err := lockAccount(ctx, tx, userID, accountID)
	if err != nil {
		return err
	}
	next := funds.Balance.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientBalance
	}
	return writeFunds(ctx, tx, accountID, next, funds.Saved)
}

func writeFunds(ctx context.Context, tx pgx.Tx, accountID int32, balance, saved decimal.Decimal) error {
	pgBalance, err := decimalToPgNumeric(balance)
	if err != nil {
		return fmt.Errorf("invalid balance: %w", err)
	}
	pgSaved, err := decimalToPgNumeric(saved)
	if err != nil {
		return fmt.Errorf("invalid saved amount: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE accounts SET balance = $2, saved = $3, updated_at = NOW() WHERE id = $1`,
		accountID, pgBalance, pgSaved)
	return err
}
