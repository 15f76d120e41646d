// Package ledger holds the pure wallet arithmetic: fee computation and the
// withdrawal eligibility rules. No I/O, deterministic for identical inputs.
package ledger

import "github.com/shopspring/decimal"

// CurrencyPrecision is the number of decimal places amounts are rounded to.
const CurrencyPrecision = 2

// DefaultFeePercent is applied when the wallet's stored fee percentage is
// zero. A stored value of zero is indistinguishable from unset, so a
// configured 0% fee also falls back to the default.
var DefaultFeePercent = decimal.NewFromInt(5)

var hundred = decimal.NewFromInt(100)

// ComputeFee returns amount * feePercent / 100 rounded to currency precision.
func ComputeFee(feePercent, amount decimal.Decimal) decimal.Decimal {
	if feePercent.IsZero() {
		feePercent = DefaultFeePercent
	}
	return amount.Mul(feePercent).Div(hundred).Round(CurrencyPrecision)
}

// NetAmount returns the payout after the fee is deducted.
func NetAmount(amount, fee decimal.Decimal) decimal.Decimal {
	return amount.Sub(fee)
}
