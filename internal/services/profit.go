package services

import (
	"context"
	"fmt"

	"ledger-service/internal/ledger"
	"ledger-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProfitService credits investment returns to accrued_profits. Batches from
// the profit stream are applied per account in one database transaction.
type ProfitService struct {
	wallets WalletRepository
	cache   BalanceCache
	log     *logrus.Logger
}

func NewProfitService(wallets WalletRepository, cache BalanceCache, log *logrus.Logger) *ProfitService {
	return &ProfitService{
		wallets: wallets,
		cache:   cache,
		log:     log,
	}
}

// ProcessUserCredits applies a batch of profit credits for one account.
// Replayed events are detected by their event ID and skipped.
func (s *ProfitService) ProcessUserCredits(userID string, credits []models.ProfitCreditMessage) error {
	ctx := context.Background()

	tx, err := s.wallets.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	applied, err := func() (decimal.Decimal, error) {
		if _, err := tx.LockWalletForUpdate(ctx, userID); err != nil {
			return decimal.Zero, err
		}

		total := decimal.Zero
		for _, credit := range credits {
			if !credit.Amount.IsPositive() {
				s.log.WithField("event_id", credit.EventID).Warn("skipping non-positive profit credit")
				continue
			}

			exists, err := tx.TransactionExistsByReference(ctx, userID, credit.EventID)
			if err != nil {
				return decimal.Zero, err
			}
			if exists {
				// Already applied; the stream redelivered the event.
				continue
			}

			record := &models.Transaction{
				ID:     uuid.New().String(),
				UserID: userID,
				Type:   models.TransactionTypeCredit,
				Amount: credit.Amount,
				Status: models.TransactionStatusCompleted,
				Description: fmt.Sprintf("Investment return of %s credited from %s",
					credit.Amount.StringFixed(ledger.CurrencyPrecision), credit.Source),
				Metadata: models.Metadata{
					"reference": credit.EventID,
					"source":    credit.Source,
				},
			}
			if err := tx.InsertTransaction(ctx, record); err != nil {
				return decimal.Zero, err
			}

			total = total.Add(credit.Amount)
		}

		if total.IsPositive() {
			if err := tx.CreditProfit(ctx, userID, total); err != nil {
				return decimal.Zero, err
			}
		}
		return total, nil
	}()
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("profit credit error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("failed to process profit credits: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The cached snapshot carries accrued profits, so it is stale now.
	if applied.IsPositive() {
		if err := s.cache.DeleteSnapshot(ctx, userID); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate wallet snapshot cache")
		}
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"applied": applied.StringFixed(ledger.CurrencyPrecision),
		"events":  len(credits),
	}).Info("profit credits applied")

	return nil
}
