package postgresrepo

import (
	"context"
	"fmt"

	"ledger-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// LoanRepository reads loan totals owned by the lending subsystem.
// Read-only from the ledger's perspective.
type LoanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// TotalApproved sums the account's approved loan applications. Pending and
// rejected applications do not count toward the eligibility gate.
func (r *LoanRepository) TotalApproved(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := `SELECT COALESCE(SUM(amount), 0) FROM loan_applications WHERE user_id = $1 AND status = $2`

	err := r.db.GetContext(ctx, &total, query, userID, models.LoanStatusApproved)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved loans: %w", err)
	}

	return total, nil
}
