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

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, account_id, type, date, expense_category, detail, amount, note, created_at, updated_at`

// Create inserts a transaction and applies it to the account balance
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := adjustBalance(ctx, tx, transaction.UserID, transaction.AccountID, balanceEffect(transaction.Type, transaction.Amount)); err != nil {
		return nil, err
	}

	created, err := scanTransaction(tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, account_id, type, date, expense_category, detail, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		pgUUID(transaction.UserID), transaction.AccountID, string(transaction.Type), timeToPgDate(transaction.Date),
		categoryToPgText(transaction.Category), transaction.Detail, amount, stringPtrToPgText(transaction.Note)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetByID retrieves a transaction by ID for a user
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2`, pgUUID(userID), id))
}

// ListByUser retrieves a user's transactions, newest first, narrowed by the optional filters
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	var txType pgtype.Text
	if filters.Type != nil {
		txType = pgtype.Text{String: string(*filters.Type), Valid: true}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1
			AND ($2::date IS NULL OR date >= $2)
			AND ($3::date IS NULL OR date <= $3)
			AND ($4::text IS NULL OR type = $4)
		ORDER BY date DESC, id DESC`,
		pgUUID(userID), timePtrToPgDate(filters.StartDate), timePtrToPgDate(filters.EndDate), txType)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListRecent retrieves the user's latest transactions
func (r *TransactionRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2`, pgUUID(userID), limit)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// Update rewrites an expense and moves the balance by the difference between its old and new effect
func (r *TransactionRepository) Update(ctx context.Context, userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := scanTransaction(tx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2 FOR UPDATE`, pgUUID(userID), id))
	if err != nil {
		return nil, err
	}

	delta := balanceEffect(existing.Type, data.Amount).Sub(balanceEffect(existing.Type, existing.Amount))
	if err := adjustBalance(ctx, tx, userID, existing.AccountID, delta); err != nil {
		return nil, err
	}

	updated, err := scanTransaction(tx.QueryRow(ctx, `
		UPDATE transactions
		SET date = $3, expense_category = $4, detail = $5, amount = $6, note = $7, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		pgUUID(userID), id, timeToPgDate(data.Date), categoryToPgText(data.Category), data.Detail, amount, stringPtrToPgText(data.Note)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// Delete removes a transaction and reverses its effect on the balance
func (r *TransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := scanTransaction(tx.QueryRow(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2 RETURNING `+transactionColumns, pgUUID(userID), id))
	if err != nil {
		return err
	}

	if err := adjustBalance(ctx, tx, userID, existing.AccountID, balanceEffect(existing.Type, existing.Amount).Neg()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// balanceEffect is the signed change a transaction makes to its account balance
func balanceEffect(t domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == domain.TransactionTypeIn {
		return amount
	}
	return amount.Neg()
}

func categoryToPgText(c *domain.ExpenseCategory) pgtype.Text {
	if c == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: string(*c), Valid: true}
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		userID               pgtype.UUID
		txType               string
		date                 pgtype.Date
		category, note       pgtype.Text
		amount               pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
		t                    domain.Transaction
	)
	err := row.Scan(&t.ID, &userID, &t.AccountID, &txType, &date, &category, &t.Detail, &amount, &note, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.UserID = pgUUIDToUUID(userID)
	t.Type = domain.TransactionType(txType)
	t.Date = date.Time
	if category.Valid {
		c := domain.ExpenseCategory(category.String)
		t.Category = &c
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Note = pgTextToStringPtr(note)
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}
