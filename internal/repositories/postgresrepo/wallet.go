package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrConcurrentModification = errors.New("wallet was modified concurrently")
	ErrInsufficientBalance    = errors.New("insufficient wallet balance")
)

const walletColumns = `user_id, balance, accrued_profits, withdrawal_fee_percentage, total_deposits, last_deposit_method, created_at, updated_at`

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetWallet get a wallet by account ID
func (r *WalletRepository) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	err := r.db.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet from postgres: %w", err)
	}

	return &wallet, nil
}

// ApplyDelta mutates the balance by a signed delta in a single conditional
// UPDATE. The balance is never allowed below zero. When expectedUpdatedAt is
// set the update only applies if the row has not changed since that read.
func (r *WalletRepository) ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal, expectedUpdatedAt *time.Time) (*models.Wallet, error) {
	var wallet models.Wallet
	var err error

	if expectedUpdatedAt != nil {
		query := `
			UPDATE wallets
			SET balance = balance + $1, updated_at = NOW()
			WHERE user_id = $2 AND balance + $1 >= 0 AND updated_at = $3
			RETURNING ` + walletColumns
		err = r.db.GetContext(ctx, &wallet, query, delta, userID, *expectedUpdatedAt)
	} else {
		query := `
			UPDATE wallets
			SET balance = balance + $1, updated_at = NOW()
			WHERE user_id = $2 AND balance + $1 >= 0
			RETURNING ` + walletColumns
		err = r.db.GetContext(ctx, &wallet, query, delta, userID)
	}

	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	// No row matched: distinguish a missing wallet from a failed precondition.
	exists, existsErr := r.walletExists(ctx, userID)
	if existsErr != nil {
		return nil, existsErr
	}
	if !exists {
		return nil, ErrWalletNotFound
	}
	if expectedUpdatedAt != nil {
		return nil, ErrConcurrentModification
	}
	return nil, ErrInsufficientBalance
}

// IncrementTotalDeposits maintains the lifetime deposit counter used for
// reporting; it takes no part in eligibility.
func (r *WalletRepository) IncrementTotalDeposits(ctx context.Context, userID string, amount decimal.Decimal) error {
	query := `UPDATE wallets SET total_deposits = total_deposits + $1 WHERE user_id = $2`

	result, err := r.db.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to increment total deposits: %w", err)
	}

	return requireRow(result, ErrWalletNotFound)
}

// SetLastDepositMethod records the method of the most recent deposit so the
// withdrawal-method-selection collaborator can restrict payout choices.
func (r *WalletRepository) SetLastDepositMethod(ctx context.Context, userID, method string) error {
	query := `UPDATE wallets SET last_deposit_method = $1 WHERE user_id = $2`

	result, err := r.db.ExecContext(ctx, query, method, userID)
	if err != nil {
		return fmt.Errorf("failed to set last deposit method: %w", err)
	}

	return requireRow(result, ErrWalletNotFound)
}

// BeginTx starts a transaction and returns a transactional repository
func (r *WalletRepository) BeginTx(ctx context.Context) (LedgerTx, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return NewLedgerTxRepo(tx), nil
}

func (r *WalletRepository) walletExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1)`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	return exists, nil
}

func requireRow(result sql.Result, missing error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return missing
	}
	return nil
}
