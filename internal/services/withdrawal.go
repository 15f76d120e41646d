package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/ledger"
	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type WithdrawalService struct {
	wallets     WalletRepository
	loans       LoanRepository
	investments InvestmentRepository
	cache       BalanceCache
	events      EventPublisher
	log         *logrus.Logger
}

func NewWithdrawalService(
	wallets WalletRepository,
	loans LoanRepository,
	investments InvestmentRepository,
	cache BalanceCache,
	events EventPublisher,
	log *logrus.Logger,
) *WithdrawalService {
	return &WithdrawalService{
		wallets:     wallets,
		loans:       loans,
		investments: investments,
		cache:       cache,
		events:      events,
		log:         log,
	}
}

// Process runs a withdrawal request end to end: eligibility, fee split,
// balance mutation and the two audit records, all inside one unit of work.
// An ineligible request is a result, not an error; nothing is mutated.
func (s *WithdrawalService) Process(ctx context.Context, userID string, amount decimal.Decimal, destination models.Destination) (*models.WithdrawalResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	// Loan and investment totals belong to other subsystems and are read
	// without locking: an eventually-consistent snapshot at the instant of
	// the eligibility check.
	totalLoans, err := s.loans.TotalApproved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read loan total: %w", err)
	}
	totalInvestments, err := s.investments.TotalInvested(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read investment total: %w", err)
	}

	tx, err := s.wallets.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := s.processInTx(ctx, tx, userID, amount, totalLoans, totalInvestments, destination)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return nil, fmt.Errorf("withdrawal error: %w, rollback error: %v", err, rollbackErr)
		}
		return nil, err
	}

	if !result.Eligible {
		// No mutation happened; release the row lock.
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return nil, fmt.Errorf("failed to rollback: %w", rollbackErr)
		}
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  amount.StringFixed(ledger.CurrencyPrecision),
			"reason":  result.Reason,
		}).Info("withdrawal rejected by eligibility gate")
		return result, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Cache invalidation and event publish are best-effort after commit.
	if err := s.cache.DeleteSnapshot(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate wallet snapshot cache")
	}
	s.publishEvent(ctx, userID, result.TransactionID, models.TransactionTypeWithdrawal, models.TransactionStatusPending, amount)

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": result.TransactionID,
		"amount":         amount.StringFixed(ledger.CurrencyPrecision),
		"fee":            result.Fee.StringFixed(ledger.CurrencyPrecision),
	}).Info("withdrawal processed")

	return result, nil
}

func (s *WithdrawalService) processInTx(
	ctx context.Context,
	tx postgresrepo.LedgerTx,
	userID string,
	amount, totalLoans, totalInvestments decimal.Decimal,
	destination models.Destination,
) (*models.WithdrawalResult, error) {

	// The row lock serializes concurrent withdrawals for this account, so
	// eligibility is always evaluated against the current balance.
	wallet, err := tx.LockWalletForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	decision := ledger.Evaluate(wallet, amount, totalLoans, totalInvestments)
	if !decision.Eligible {
		return &models.WithdrawalResult{
			Eligible: false,
			Reason:   decision.Reason,
			Amount:   amount,
		}, nil
	}

	newBalance := wallet.Balance.Sub(amount)
	if newBalance.IsNegative() {
		// Accrued profits extend the eligibility ceiling but the stored
		// balance itself must never go below zero.
		return &models.WithdrawalResult{
			Eligible: false,
			Reason:   "insufficient available balance",
			Amount:   amount,
		}, nil
	}

	fee := ledger.ComputeFee(wallet.WithdrawalFeePercentage, amount)
	netAmount := ledger.NetAmount(amount, fee)

	if err := tx.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, err
	}

	withdrawalID := uuid.New().String()
	metadata := destination.AuditMetadata()
	metadata["fee"] = fee.StringFixed(ledger.CurrencyPrecision)
	metadata["net_amount"] = netAmount.StringFixed(ledger.CurrencyPrecision)

	withdrawal := &models.Transaction{
		ID:     withdrawalID,
		UserID: userID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: amount,
		Status: models.TransactionStatusPending,
		Description: fmt.Sprintf("Withdrawal of %s to %s (%s %s): fee %s, net payout %s",
			amount.StringFixed(ledger.CurrencyPrecision),
			destination.Name,
			destination.MethodType,
			destination.RedactedIdentifier(),
			fee.StringFixed(ledger.CurrencyPrecision),
			netAmount.StringFixed(ledger.CurrencyPrecision),
		),
		Metadata: metadata,
	}
	if err := tx.InsertTransaction(ctx, withdrawal); err != nil {
		return nil, err
	}

	feeRecord := &models.Transaction{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   models.TransactionTypeFee,
		Amount: fee,
		Status: models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Withdrawal fee of %s for withdrawal of %s",
			fee.StringFixed(ledger.CurrencyPrecision),
			amount.StringFixed(ledger.CurrencyPrecision),
		),
		Metadata: models.Metadata{"withdrawal_id": withdrawalID},
	}
	if err := tx.InsertTransaction(ctx, feeRecord); err != nil {
		return nil, err
	}

	return &models.WithdrawalResult{
		Eligible:      true,
		TransactionID: withdrawalID,
		Amount:        amount,
		Fee:           fee,
		NetAmount:     netAmount,
		NewBalance:    newBalance,
	}, nil
}

func (s *WithdrawalService) publishEvent(ctx context.Context, userID, transactionID, txType, status string, amount decimal.Decimal) {
	event := models.LedgerEvent{
		EventID:       uuid.New().String(),
		UserID:        userID,
		TransactionID: transactionID,
		Type:          txType,
		Status:        status,
		Amount:        amount,
		OccurredAt:    time.Now(),
	}
	if err := s.events.PublishTransaction(ctx, event); err != nil {
		s.log.WithError(err).WithField("transaction_id", transactionID).Warn("failed to publish ledger event")
	}
}
