package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Metadata is a structured JSONB payload attached to a transaction
// (payment method, destination details, fee breakdown).
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Transaction is an immutable append-only audit record. After creation the
// only allowed change is the single pending -> completed/rejected transition
// performed by the approval workflow.
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"userId"`
	Type        string          `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Status      string          `db:"status" json:"status"`
	Description string          `db:"description" json:"description"`
	CreatedBy   *string         `db:"created_by" json:"createdBy,omitempty"`
	Metadata    Metadata        `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// Transaction type constants
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeFee        = "fee"
	TransactionTypeCredit     = "credit"
	TransactionTypeInvestment = "investment"
)

// Transaction status constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusRejected  = "rejected"
	TransactionStatusFailed    = "failed"
)

// Read-only eligibility inputs owned by other subsystems.
type LoanApplication struct {
	ID     string          `db:"id"`
	UserID string          `db:"user_id"`
	Amount decimal.Decimal `db:"amount"`
	Status string          `db:"status"` // pending, approved, rejected
}

type Investment struct {
	ID     string          `db:"id"`
	UserID string          `db:"user_id"`
	Amount decimal.Decimal `db:"amount"`
	Status string          `db:"status"`
}

const LoanStatusApproved = "approved"
