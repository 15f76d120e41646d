package services

import (
	"context"
	"testing"

	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "5a0b2c3d-1111-4222-8333-944455566677"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testWallet(balance, profits, feePercent string) *models.Wallet {
	return &models.Wallet{
		UserID:                  testUserID,
		Balance:                 dec(balance),
		AccruedProfits:          dec(profits),
		WithdrawalFeePercentage: dec(feePercent),
	}
}

func cryptoDestination() models.Destination {
	return models.Destination{
		Name:       "Main Vault",
		MethodType: models.MethodTypeCrypto,
		Crypto: &models.CryptoDetails{
			Address: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
			Network: "bitcoin",
		},
	}
}

func newWithdrawalService(repo *fakeWalletRepo, loans, investments string) (*WithdrawalService, *fakeBalanceCache, *fakeEventPublisher) {
	cache := newFakeBalanceCache()
	events := &fakeEventPublisher{}
	svc := NewWithdrawalService(
		repo,
		&fakeLoanRepo{total: dec(loans)},
		&fakeInvestmentRepo{total: dec(investments)},
		cache,
		events,
		newTestLogger(),
	)
	return svc, cache, events
}

func TestWithdrawalService_Process(t *testing.T) {
	t.Run("no loans, standard fee split", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "5"))
		svc, cache, events := newWithdrawalService(repo, "0", "0")

		result, err := svc.Process(context.Background(), testUserID, dec("200"), cryptoDestination())
		require.NoError(t, err)

		require.True(t, result.Eligible)
		assert.True(t, result.Fee.Equal(dec("10")), "fee = %s", result.Fee)
		assert.True(t, result.NetAmount.Equal(dec("190")), "net = %s", result.NetAmount)
		assert.True(t, result.NewBalance.Equal(dec("800")), "balance = %s", result.NewBalance)
		assert.True(t, repo.wallet.Balance.Equal(dec("800")))

		// Exactly two records: the pending withdrawal and the completed fee.
		require.Len(t, repo.transactions, 2)
		withdrawal, fee := repo.transactions[0], repo.transactions[1]

		assert.Equal(t, models.TransactionTypeWithdrawal, withdrawal.Type)
		assert.Equal(t, models.TransactionStatusPending, withdrawal.Status)
		assert.True(t, withdrawal.Amount.Equal(dec("200")))
		assert.Contains(t, withdrawal.Description, "Main Vault")
		assert.Contains(t, withdrawal.Description, "crypto")
		assert.Contains(t, withdrawal.Description, "10.00")
		assert.Contains(t, withdrawal.Description, "190.00")
		assert.Contains(t, withdrawal.Description, "bc1qxy...0wlh")
		assert.NotContains(t, withdrawal.Description, "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh")

		assert.Equal(t, models.TransactionTypeFee, fee.Type)
		assert.Equal(t, models.TransactionStatusCompleted, fee.Status)
		assert.True(t, fee.Amount.Equal(dec("10")))
		assert.Equal(t, withdrawal.ID, fee.Metadata["withdrawal_id"])

		assert.True(t, repo.lastTx.committed)
		assert.Contains(t, cache.deleted, testUserID)
		require.Len(t, events.events, 1)
		assert.Equal(t, withdrawal.ID, events.events[0].TransactionID)
	})

	t.Run("ratio gate rejects without mutation", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "5"))
		svc, _, events := newWithdrawalService(repo, "900", "200")

		result, err := svc.Process(context.Background(), testUserID, dec("150"), cryptoDestination())
		require.NoError(t, err)

		require.False(t, result.Eligible)
		assert.Contains(t, result.Reason, "300.00")
		assert.True(t, repo.wallet.Balance.Equal(dec("1000")), "balance must be untouched")
		assert.Empty(t, repo.transactions, "no records on rejection")
		assert.True(t, repo.lastTx.rolledBack)
		assert.Empty(t, events.events)
	})

	t.Run("ceiling rejects above non-loan balance plus profits", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "50", "5"))
		svc, _, _ := newWithdrawalService(repo, "900", "350")

		result, err := svc.Process(context.Background(), testUserID, dec("151"), cryptoDestination())
		require.NoError(t, err)

		require.False(t, result.Eligible)
		assert.Contains(t, result.Reason, "150.00")
		assert.True(t, repo.wallet.Balance.Equal(dec("1000")))
	})

	t.Run("ceiling admits exactly the eligible amount", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "50", "5"))
		svc, _, _ := newWithdrawalService(repo, "900", "350")

		result, err := svc.Process(context.Background(), testUserID, dec("150"), cryptoDestination())
		require.NoError(t, err)

		require.True(t, result.Eligible)
		assert.True(t, result.NewBalance.Equal(dec("850")))
	})

	t.Run("wallet not found", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "5"))
		svc, _, _ := newWithdrawalService(repo, "0", "0")

		_, err := svc.Process(context.Background(), "00000000-0000-4000-8000-000000000000", dec("10"), cryptoDestination())
		assert.ErrorIs(t, err, postgresrepo.ErrWalletNotFound)
		assert.True(t, repo.lastTx.rolledBack)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "5"))
		svc, _, _ := newWithdrawalService(repo, "0", "0")

		_, err := svc.Process(context.Background(), testUserID, dec("0"), cryptoDestination())
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, repo.lastTx, "no transaction is opened")
	})

	t.Run("invalid destination", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "5"))
		svc, _, _ := newWithdrawalService(repo, "0", "0")

		dest := models.Destination{Name: "Broken", MethodType: models.MethodTypeCrypto}
		_, err := svc.Process(context.Background(), testUserID, dec("10"), dest)
		assert.Error(t, err)
		assert.Nil(t, repo.lastTx)
	})

	t.Run("balance floor holds even when profits extend the ceiling", func(t *testing.T) {
		// Eligible by the ceiling (100 + 50) but the stored balance cannot
		// cover the debit.
		repo := newFakeWalletRepo(testWallet("100", "50", "5"))
		svc, _, _ := newWithdrawalService(repo, "0", "0")

		result, err := svc.Process(context.Background(), testUserID, dec("120"), cryptoDestination())
		require.NoError(t, err)

		require.False(t, result.Eligible)
		assert.Contains(t, result.Reason, "insufficient")
		assert.True(t, repo.wallet.Balance.Equal(dec("100")))
		assert.Empty(t, repo.transactions)
	})

	t.Run("default fee applies when wallet fee percentage is zero", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "0"))
		svc, _, _ := newWithdrawalService(repo, "0", "0")

		result, err := svc.Process(context.Background(), testUserID, dec("200"), cryptoDestination())
		require.NoError(t, err)

		require.True(t, result.Eligible)
		assert.True(t, result.Fee.Equal(dec("10")), "zero-valued fee percentage falls back to 5%%, got %s", result.Fee)
	})

	t.Run("event publish failure does not fail the withdrawal", func(t *testing.T) {
		repo := newFakeWalletRepo(testWallet("1000", "0", "5"))
		cache := newFakeBalanceCache()
		svc := NewWithdrawalService(
			repo,
			&fakeLoanRepo{total: dec("0")},
			&fakeInvestmentRepo{total: dec("0")},
			cache,
			&fakeEventPublisher{err: assert.AnError},
			newTestLogger(),
		)

		result, err := svc.Process(context.Background(), testUserID, dec("200"), cryptoDestination())
		require.NoError(t, err)
		assert.True(t, result.Eligible)
		assert.True(t, repo.wallet.Balance.Equal(dec("800")))
	})
}
