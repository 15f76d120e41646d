package services

import (
	"context"
	"time"

	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"

	"github.com/shopspring/decimal"
)

// Repository interfaces consumed by the services. Postgres implementations
// live in postgresrepo; tests substitute in-memory fakes.

type WalletRepository interface {
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal, expectedUpdatedAt *time.Time) (*models.Wallet, error)
	IncrementTotalDeposits(ctx context.Context, userID string, amount decimal.Decimal) error
	SetLastDepositMethod(ctx context.Context, userID, method string) error
	BeginTx(ctx context.Context) (postgresrepo.LedgerTx, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error)
}

type LoanRepository interface {
	TotalApproved(ctx context.Context, userID string) (decimal.Decimal, error)
}

type InvestmentRepository interface {
	TotalInvested(ctx context.Context, userID string) (decimal.Decimal, error)
}

type BalanceCache interface {
	GetSnapshot(ctx context.Context, userID string) (*models.WalletBalanceResponse, error)
	SetSnapshot(ctx context.Context, userID string, snapshot *models.WalletBalanceResponse) error
	DeleteSnapshot(ctx context.Context, userID string) error
}

type EventPublisher interface {
	PublishTransaction(ctx context.Context, event models.LedgerEvent) error
}
