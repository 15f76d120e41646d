package services

import (
	"context"
	"time"

	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"
	"ledger-service/internal/repositories/redisrepo"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func strptr(s string) *string { return &s }

// fakeWalletRepo is an in-memory WalletRepository. Transactions stage their
// writes and apply them to the repo state on Commit.
type fakeWalletRepo struct {
	wallet       *models.Wallet
	transactions []*models.Transaction
	statuses     map[string]string // transaction ID -> status overridden by a unit of work
	seenRefs     map[string]bool

	beginErr error
	lastTx   *fakeLedgerTx
}

func newFakeWalletRepo(wallet *models.Wallet) *fakeWalletRepo {
	return &fakeWalletRepo{
		wallet:   wallet,
		statuses: make(map[string]string),
		seenRefs: make(map[string]bool),
	}
}

func (f *fakeWalletRepo) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	if f.wallet == nil || f.wallet.UserID != userID {
		return nil, postgresrepo.ErrWalletNotFound
	}
	cp := *f.wallet
	return &cp, nil
}

func (f *fakeWalletRepo) ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal, expectedUpdatedAt *time.Time) (*models.Wallet, error) {
	if f.wallet == nil || f.wallet.UserID != userID {
		return nil, postgresrepo.ErrWalletNotFound
	}
	next := f.wallet.Balance.Add(delta)
	if next.IsNegative() {
		return nil, postgresrepo.ErrInsufficientBalance
	}
	f.wallet.Balance = next
	cp := *f.wallet
	return &cp, nil
}

func (f *fakeWalletRepo) IncrementTotalDeposits(ctx context.Context, userID string, amount decimal.Decimal) error {
	f.wallet.TotalDeposits = f.wallet.TotalDeposits.Add(amount)
	return nil
}

func (f *fakeWalletRepo) SetLastDepositMethod(ctx context.Context, userID, method string) error {
	f.wallet.LastDepositMethod = &method
	return nil
}

func (f *fakeWalletRepo) BeginTx(ctx context.Context) (postgresrepo.LedgerTx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	tx := &fakeLedgerTx{repo: f}
	if f.wallet != nil {
		cp := *f.wallet
		tx.staged = &cp
	}
	tx.stagedStatuses = make(map[string]string)
	f.lastTx = tx
	return tx, nil
}

type fakeLedgerTx struct {
	repo           *fakeWalletRepo
	staged         *models.Wallet
	inserted       []*models.Transaction
	stagedStatuses map[string]string

	committed  bool
	rolledBack bool

	lockErr   error
	insertErr error
	commitErr error
}

func (t *fakeLedgerTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	if t.staged != nil {
		*t.repo.wallet = *t.staged
	}
	t.repo.transactions = append(t.repo.transactions, t.inserted...)
	for id, status := range t.stagedStatuses {
		t.repo.statuses[id] = status
	}
	return nil
}

func (t *fakeLedgerTx) Rollback() error {
	t.rolledBack = true
	return nil
}

func (t *fakeLedgerTx) LockWalletForUpdate(ctx context.Context, userID string) (*models.Wallet, error) {
	if t.lockErr != nil {
		return nil, t.lockErr
	}
	if t.staged == nil || t.staged.UserID != userID {
		return nil, postgresrepo.ErrWalletNotFound
	}
	cp := *t.staged
	return &cp, nil
}

func (t *fakeLedgerTx) UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	t.staged.Balance = balance
	return nil
}

func (t *fakeLedgerTx) CreditProfit(ctx context.Context, userID string, amount decimal.Decimal) error {
	t.staged.AccruedProfits = t.staged.AccruedProfits.Add(amount)
	return nil
}

func (t *fakeLedgerTx) IncrementTotalDeposits(ctx context.Context, userID string, amount decimal.Decimal) error {
	t.staged.TotalDeposits = t.staged.TotalDeposits.Add(amount)
	return nil
}

func (t *fakeLedgerTx) SetLastDepositMethod(ctx context.Context, userID, method string) error {
	t.staged.LastDepositMethod = &method
	return nil
}

func (t *fakeLedgerTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	if t.insertErr != nil {
		return t.insertErr
	}
	cp := *txn
	t.inserted = append(t.inserted, &cp)
	return nil
}

func (t *fakeLedgerTx) UpdateTransactionStatus(ctx context.Context, transactionID, fromStatus, toStatus string) error {
	current, ok := t.repo.statuses[transactionID]
	if ok && current != fromStatus {
		return postgresrepo.ErrTransactionNotFound
	}
	t.stagedStatuses[transactionID] = toStatus
	return nil
}

func (t *fakeLedgerTx) TransactionExistsByReference(ctx context.Context, userID, reference string) (bool, error) {
	if t.repo.seenRefs[reference] {
		return true, nil
	}
	t.repo.seenRefs[reference] = true
	return false, nil
}

type fakeTransactionRepo struct {
	byID map[string]*models.Transaction
	list []models.Transaction
}

func (f *fakeTransactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	if f.byID == nil {
		f.byID = make(map[string]*models.Transaction)
	}
	f.byID[txn.ID] = txn
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, ok := f.byID[transactionID]
	if !ok {
		return nil, postgresrepo.ErrTransactionNotFound
	}
	cp := *txn
	return &cp, nil
}

func (f *fakeTransactionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	return f.list, nil
}

func (f *fakeTransactionRepo) ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	return f.list, nil
}

type fakeLoanRepo struct {
	total decimal.Decimal
	err   error
}

func (f *fakeLoanRepo) TotalApproved(ctx context.Context, userID string) (decimal.Decimal, error) {
	return f.total, f.err
}

type fakeInvestmentRepo struct {
	total decimal.Decimal
	err   error
}

func (f *fakeInvestmentRepo) TotalInvested(ctx context.Context, userID string) (decimal.Decimal, error) {
	return f.total, f.err
}

type fakeBalanceCache struct {
	snapshots map[string]*models.WalletBalanceResponse
	deleted   []string
	setErr    error
}

func newFakeBalanceCache() *fakeBalanceCache {
	return &fakeBalanceCache{snapshots: make(map[string]*models.WalletBalanceResponse)}
}

func (f *fakeBalanceCache) GetSnapshot(ctx context.Context, userID string) (*models.WalletBalanceResponse, error) {
	snapshot, ok := f.snapshots[userID]
	if !ok {
		return nil, redisrepo.ErrSnapshotNotFound
	}
	cp := *snapshot
	return &cp, nil
}

func (f *fakeBalanceCache) SetSnapshot(ctx context.Context, userID string, snapshot *models.WalletBalanceResponse) error {
	if f.setErr != nil {
		return f.setErr
	}
	cp := *snapshot
	f.snapshots[userID] = &cp
	return nil
}

func (f *fakeBalanceCache) DeleteSnapshot(ctx context.Context, userID string) error {
	delete(f.snapshots, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeEventPublisher struct {
	events []models.LedgerEvent
	err    error
}

func (f *fakeEventPublisher) PublishTransaction(ctx context.Context, event models.LedgerEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
