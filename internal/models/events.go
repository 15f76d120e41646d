package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEvent is published to Kafka after a transaction commits.
// Keyed by UserID so per-account ordering is preserved.
type LedgerEvent struct {
	EventID       string          `json:"event_id"`
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ProfitCreditMessage is consumed from the investment platform's profit
// stream and credited to accrued_profits by the worker.
type ProfitCreditMessage struct {
	EventID string          `json:"event_id"`
	UserID  string          `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
	Source  string          `json:"source"`
}
