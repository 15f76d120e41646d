package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=card crypto"`
	Reference string          `json:"reference" validate:"required"`
}

type WithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Destination Destination     `json:"destination"`
}

type WalletBalanceResponse struct {
	UserID            string          `json:"userId"`
	Balance           decimal.Decimal `json:"balance"`
	AccruedProfits    decimal.Decimal `json:"accruedProfits"`
	LastDepositMethod string          `json:"lastDepositMethod,omitempty"`
}

type DepositResponse struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	Status        string          `json:"status"`
}

type WithdrawalResponse struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	Status        string          `json:"status"`
}

type ResolutionRequest struct {
	Action     string `json:"action" validate:"required,oneof=approve reject"`
	ResolvedBy string `json:"resolvedBy"`
}

// Database model
type Wallet struct {
	UserID                  string          `db:"user_id"`
	Balance                 decimal.Decimal `db:"balance"`
	AccruedProfits          decimal.Decimal `db:"accrued_profits"`
	WithdrawalFeePercentage decimal.Decimal `db:"withdrawal_fee_percentage"`
	TotalDeposits           decimal.Decimal `db:"total_deposits"`
	LastDepositMethod       *string         `db:"last_deposit_method"`
	CreatedAt               time.Time       `db:"created_at"`
	UpdatedAt               time.Time       `db:"updated_at"`
}

// DepositResult is the outcome of a processed deposit.
type DepositResult struct {
	TransactionID string
	Amount        decimal.Decimal
	NewBalance    decimal.Decimal
}

// WithdrawalResult is the outcome of a withdrawal request. When Eligible is
// false, Reason explains which gate rejected it and nothing was mutated.
type WithdrawalResult struct {
	Eligible      bool
	Reason        string
	TransactionID string
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	NetAmount     decimal.Decimal
	NewBalance    decimal.Decimal
}

// Deposit method constants
const (
	DepositMethodCard   = "card"
	DepositMethodCrypto = "crypto"
)
