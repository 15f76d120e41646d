package services

import (
	"context"
	"fmt"
	"time"

	"ledger-service/internal/ledger"
	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type DepositService struct {
	wallets WalletRepository
	cache   BalanceCache
	events  EventPublisher
	log     *logrus.Logger
}

func NewDepositService(wallets WalletRepository, cache BalanceCache, events EventPublisher, log *logrus.Logger) *DepositService {
	return &DepositService{
		wallets: wallets,
		cache:   cache,
		events:  events,
		log:     log,
	}
}

// Process credits the wallet, bumps the lifetime deposit counter, records the
// deposit method for the withdrawal-method collaborator and appends one
// completed transaction, all in a single unit of work.
//
// Deposits are not deduplicated: two calls with identical parameters produce
// two records and two balance increments.
func (s *DepositService) Process(ctx context.Context, userID string, amount decimal.Decimal, method, reference string) (*models.DepositResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := s.wallets.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := s.processInTx(ctx, tx, userID, amount, method, reference)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return nil, fmt.Errorf("deposit error: %w, rollback error: %v", err, rollbackErr)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.cache.DeleteSnapshot(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate wallet snapshot cache")
	}

	event := models.LedgerEvent{
		EventID:       uuid.New().String(),
		UserID:        userID,
		TransactionID: result.TransactionID,
		Type:          models.TransactionTypeDeposit,
		Status:        models.TransactionStatusCompleted,
		Amount:        amount,
		OccurredAt:    time.Now(),
	}
	if err := s.events.PublishTransaction(ctx, event); err != nil {
		s.log.WithError(err).WithField("transaction_id", result.TransactionID).Warn("failed to publish ledger event")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": result.TransactionID,
		"amount":         amount.StringFixed(ledger.CurrencyPrecision),
		"method":         method,
	}).Info("deposit processed")

	return result, nil
}

func (s *DepositService) processInTx(ctx context.Context, tx postgresrepo.LedgerTx, userID string, amount decimal.Decimal, method, reference string) (*models.DepositResult, error) {

	wallet, err := tx.LockWalletForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	newBalance := wallet.Balance.Add(amount)

	if err := tx.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, err
	}
	if err := tx.IncrementTotalDeposits(ctx, userID, amount); err != nil {
		return nil, err
	}
	if err := tx.SetLastDepositMethod(ctx, userID, method); err != nil {
		return nil, err
	}

	deposit := &models.Transaction{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   models.TransactionTypeDeposit,
		Amount: amount,
		Status: models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Deposit of %s via %s (ref %s)",
			amount.StringFixed(ledger.CurrencyPrecision), method, reference),
		Metadata: models.Metadata{
			"method":    method,
			"reference": reference,
		},
	}
	if err := tx.InsertTransaction(ctx, deposit); err != nil {
		return nil, err
	}

	return &models.DepositResult{
		TransactionID: deposit.ID,
		Amount:        amount,
		NewBalance:    newBalance,
	}, nil
}
