package postgresrepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// InvestmentRepository reads investment totals owned by the investment
// subsystem. Read-only from the ledger's perspective.
type InvestmentRepository struct {
	db *sqlx.DB
}

func NewInvestmentRepository(db *sqlx.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// TotalInvested sums the account's investments across all statuses. Active,
// completed and pending records all count toward the eligibility gate.
func (r *InvestmentRepository) TotalInvested(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := `SELECT COALESCE(SUM(amount), 0) FROM investments WHERE user_id = $1`

	err := r.db.GetContext(ctx, &total, query, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum investments: %w", err)
	}

	return total, nil
}
