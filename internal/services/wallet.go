package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/ledger"
	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"
	"ledger-service/internal/repositories/redisrepo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrTransactionNotPending = errors.New("transaction is not pending")

type WalletService struct {
	wallets      WalletRepository
	transactions TransactionRepository
	cache        BalanceCache
	events       EventPublisher
	log          *logrus.Logger
}

func NewWalletService(
	wallets WalletRepository,
	transactions TransactionRepository,
	cache BalanceCache,
	events EventPublisher,
	log *logrus.Logger,
) *WalletService {
	return &WalletService{
		wallets:      wallets,
		transactions: transactions,
		cache:        cache,
		events:       events,
		log:          log,
	}
}

func (s *WalletService) GetWalletBalance(ctx context.Context, userID string) (*models.WalletBalanceResponse, error) {
	// Try the Redis snapshot first; it carries the full balance view
	snapshot, err := s.cache.GetSnapshot(ctx, userID)
	if err == nil {
		return snapshot, nil
	}

	// If Redis error is not "snapshot not found", log it but continue to PostgreSQL
	if !errors.Is(err, redisrepo.ErrSnapshotNotFound) {
		s.log.WithError(err).Warn("redis cache error (non-critical)")
	}

	wallet, err := s.wallets.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &models.WalletBalanceResponse{
		UserID:         userID,
		Balance:        wallet.Balance,
		AccruedProfits: wallet.AccruedProfits,
	}
	if wallet.LastDepositMethod != nil {
		resp.LastDepositMethod = *wallet.LastDepositMethod
	}

	// Update Redis cache asynchronously with fresh data
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.cache.SetSnapshot(cacheCtx, userID, resp); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to refresh wallet snapshot cache")
		}
	}()

	return resp, nil
}

func (s *WalletService) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.transactions.GetByID(ctx, transactionID)
}

func (s *WalletService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactions.ListByUser(ctx, userID, limit, offset)
}

// ResolveWithdrawal performs the single allowed status transition of a
// pending withdrawal. Approval completes the record as-is. Rejection restores
// the debited amount to the wallet in the same unit of work, leaving a credit
// record so the refund is visible in the audit trail. The fee stays charged.
func (s *WalletService) ResolveWithdrawal(ctx context.Context, transactionID string, approve bool, resolvedBy string) error {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Type != models.TransactionTypeWithdrawal {
		return fmt.Errorf("transaction %s is not a withdrawal", transactionID)
	}
	if txn.Status != models.TransactionStatusPending {
		return ErrTransactionNotPending
	}

	if approve {
		return s.approve(ctx, txn, resolvedBy)
	}
	return s.reject(ctx, txn, resolvedBy)
}

func (s *WalletService) approve(ctx context.Context, txn *models.Transaction, resolvedBy string) error {
	tx, err := s.wallets.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.UpdateTransactionStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusCompleted); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("approve error: %w, rollback error: %v", err, rollbackErr)
		}
		if errors.Is(err, postgresrepo.ErrTransactionNotFound) {
			return ErrTransactionNotPending
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishResolution(ctx, txn, models.TransactionStatusCompleted)

	s.log.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"resolved_by":    resolvedBy,
	}).Info("withdrawal approved")

	return nil
}

func (s *WalletService) reject(ctx context.Context, txn *models.Transaction, resolvedBy string) error {
	// The withdrawal debited exactly txn.Amount; the fee was carved out of
	// that debit, not added on top. Restoring txn.Amount returns the wallet
	// to its pre-withdrawal balance, so the fee record stays settled as
	// charged.
	fee := feeFromMetadata(txn.Metadata)
	refund := txn.Amount

	tx, err := s.wallets.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = func() error {
		wallet, err := tx.LockWalletForUpdate(ctx, txn.UserID)
		if err != nil {
			return err
		}

		if err := tx.UpdateTransactionStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusRejected); err != nil {
			if errors.Is(err, postgresrepo.ErrTransactionNotFound) {
				return ErrTransactionNotPending
			}
			return err
		}

		newBalance := wallet.Balance.Add(refund)
		if err := tx.UpdateBalance(ctx, txn.UserID, newBalance); err != nil {
			return err
		}

		creator := resolvedBy
		credit := &models.Transaction{
			ID:     uuid.New().String(),
			UserID: txn.UserID,
			Type:   models.TransactionTypeCredit,
			Amount: refund,
			Status: models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Refund of %s for rejected withdrawal %s (fee %s retained)",
				refund.StringFixed(ledger.CurrencyPrecision),
				txn.ID,
				fee.StringFixed(ledger.CurrencyPrecision),
			),
			CreatedBy: &creator,
			Metadata:  models.Metadata{"withdrawal_id": txn.ID},
		}
		return tx.InsertTransaction(ctx, credit)
	}()
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("reject error: %w, rollback error: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Force the next balance read to hit Postgres.
	if err := s.cache.DeleteSnapshot(ctx, txn.UserID); err != nil {
		s.log.WithError(err).WithField("user_id", txn.UserID).Warn("failed to invalidate wallet snapshot cache")
	}
	s.publishResolution(ctx, txn, models.TransactionStatusRejected)

	s.log.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"refund":         refund.StringFixed(ledger.CurrencyPrecision),
		"resolved_by":    resolvedBy,
	}).Info("withdrawal rejected and refunded")

	return nil
}

func (s *WalletService) publishResolution(ctx context.Context, txn *models.Transaction, status string) {
	event := models.LedgerEvent{
		EventID:       uuid.New().String(),
		UserID:        txn.UserID,
		TransactionID: txn.ID,
		Type:          txn.Type,
		Status:        status,
		Amount:        txn.Amount,
		OccurredAt:    time.Now(),
	}
	if err := s.events.PublishTransaction(ctx, event); err != nil {
		s.log.WithError(err).WithField("transaction_id", txn.ID).Warn("failed to publish ledger event")
	}
}

func feeFromMetadata(m models.Metadata) decimal.Decimal {
	raw, ok := m["fee"].(string)
	if !ok {
		return decimal.Zero
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return fee
}
