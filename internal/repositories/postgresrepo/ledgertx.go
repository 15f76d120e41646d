package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// LedgerTx is the unit of work for one ledger operation: the balance
// mutation and the transaction rows it justifies commit or roll back
// together. The row lock taken by LockWalletForUpdate serializes concurrent
// operations on the same account.
type LedgerTx interface {
	Commit() error
	Rollback() error
	LockWalletForUpdate(ctx context.Context, userID string) (*models.Wallet, error)
	UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error
	CreditProfit(ctx context.Context, userID string, amount decimal.Decimal) error
	IncrementTotalDeposits(ctx context.Context, userID string, amount decimal.Decimal) error
	SetLastDepositMethod(ctx context.Context, userID, method string) error
	InsertTransaction(ctx context.Context, txn *models.Transaction) error
	UpdateTransactionStatus(ctx context.Context, transactionID, fromStatus, toStatus string) error
	TransactionExistsByReference(ctx context.Context, userID, reference string) (bool, error)
}

type LedgerTxRepo struct {
	tx *sqlx.Tx
}

func NewLedgerTxRepo(tx *sqlx.Tx) *LedgerTxRepo {
	return &LedgerTxRepo{tx: tx}
}

func (r *LedgerTxRepo) Commit() error {
	return r.tx.Commit()
}

func (r *LedgerTxRepo) Rollback() error {
	return r.tx.Rollback()
}

func (r *LedgerTxRepo) LockWalletForUpdate(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	err := r.tx.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *LedgerTxRepo) UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE user_id = $2`
	result, err := r.tx.ExecContext(ctx, query, balance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return requireRow(result, ErrWalletNotFound)
}

func (r *LedgerTxRepo) CreditProfit(ctx context.Context, userID string, amount decimal.Decimal) error {
	query := `UPDATE wallets SET accrued_profits = accrued_profits + $1, updated_at = NOW() WHERE user_id = $2`
	result, err := r.tx.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to credit profit: %w", err)
	}
	return requireRow(result, ErrWalletNotFound)
}

func (r *LedgerTxRepo) IncrementTotalDeposits(ctx context.Context, userID string, amount decimal.Decimal) error {
	query := `UPDATE wallets SET total_deposits = total_deposits + $1 WHERE user_id = $2`
	result, err := r.tx.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to increment total deposits: %w", err)
	}
	return requireRow(result, ErrWalletNotFound)
}

func (r *LedgerTxRepo) SetLastDepositMethod(ctx context.Context, userID, method string) error {
	query := `UPDATE wallets SET last_deposit_method = $1 WHERE user_id = $2`
	result, err := r.tx.ExecContext(ctx, query, method, userID)
	if err != nil {
		return fmt.Errorf("failed to set last deposit method: %w", err)
	}
	return requireRow(result, ErrWalletNotFound)
}

func (r *LedgerTxRepo) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, user_id, type, amount, status, description, created_by, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.tx.ExecContext(ctx, query,
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
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// UpdateTransactionStatus performs the single allowed status transition. The
// guard on fromStatus makes the transition race-free: a second resolver sees
// zero rows affected.
func (r *LedgerTxRepo) UpdateTransactionStatus(ctx context.Context, transactionID, fromStatus, toStatus string) error {
	query := `UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.tx.ExecContext(ctx, query, toStatus, transactionID, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return requireRow(result, ErrTransactionNotFound)
}

// TransactionExistsByReference reports whether a transaction carrying the
// given external reference in its metadata already exists for the account.
// Used to deduplicate replayed profit-credit events.
func (r *LedgerTxRepo) TransactionExistsByReference(ctx context.Context, userID, reference string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE user_id = $1 AND metadata->>'reference' = $2)`
	err := r.tx.QueryRowContext(ctx, query, userID, reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction reference: %w", err)
	}
	return exists, nil
}
