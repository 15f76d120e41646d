package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/models"

	"github.com/jmoiron/sqlx"
)

const transactionColumns = `id, user_id, type, amount, status, description, created_by, metadata, created_at`

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a transaction outside a unit of work. Ledger mutations go
// through LedgerTx.InsertTransaction instead; this path serves standalone
// records such as admin-originated credits.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, user_id, type, amount, status, description, created_by, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Type,
		txn.Amount,
		txn.Status,
		txn.Description,
		txn.CreatedBy,
		txn.Metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID get a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var txn models.Transaction

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	err := r.db.GetContext(ctx, &txn, query, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction from postgres: %w", err)
	}

	return &txn, nil
}

// ListByUser returns the account's transactions newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

// ListStalePending returns pending withdrawals created before the cutoff.
// Surfaced by the reconciler for operator attention.
func (r *TransactionRepository) ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = $1 AND status = $2 AND created_at < $3
		ORDER BY created_at ASC
	`

	cutoff := time.Now().Add(-olderThan)

	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, query,
		models.TransactionTypeWithdrawal,
		models.TransactionStatusPending,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending withdrawals: %w", err)
	}

	return transactions, nil
}
