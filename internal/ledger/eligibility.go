package ledger

import (
	"fmt"

	"ledger-service/internal/models"

	"github.com/shopspring/decimal"
)

var three = decimal.NewFromInt(3)

// Decision is the outcome of the eligibility evaluation.
type Decision struct {
	Eligible bool
	Reason   string
}

// Evaluate decides whether a withdrawal of amount is permitted.
//
// The non-loan balance (balance minus approved loans) is freely withdrawable.
// Beyond it, the account must first have invested at least one third of its
// approved loan total; past that gate the ceiling is the non-loan balance
// plus accrued profits.
func Evaluate(wallet *models.Wallet, amount, totalLoans, totalInvestments decimal.Decimal) Decision {
	nonLoanBalance := wallet.Balance.Sub(totalLoans)

	// The requested amount is covered without touching loan-derived funds.
	if amount.LessThanOrEqual(nonLoanBalance) {
		return Decision{Eligible: true}
	}

	if totalLoans.IsPositive() {
		required := totalLoans.Div(three)
		if totalInvestments.LessThan(required) {
			return Decision{
				Eligible: false,
				Reason: fmt.Sprintf(
					"withdrawals beyond your non-loan balance require total investments of at least %s; currently invested: %s",
					required.StringFixed(CurrencyPrecision),
					totalInvestments.StringFixed(CurrencyPrecision),
				),
			}
		}
	}

	eligibleAmount := nonLoanBalance.Add(wallet.AccruedProfits)
	if amount.GreaterThan(eligibleAmount) {
		return Decision{
			Eligible: false,
			Reason: fmt.Sprintf(
				"requested amount exceeds the eligible withdrawal ceiling of %s",
				eligibleAmount.StringFixed(CurrencyPrecision),
			),
		}
	}

	return Decision{Eligible: true}
}
