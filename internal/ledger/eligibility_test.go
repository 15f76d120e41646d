package ledger

import (
	"strings"
	"testing"

	"ledger-service/internal/models"
)

func TestEvaluate(t *testing.T) {
	type want struct {
		eligible      bool
		reasonHas     string
		reasonMissing bool
	}

	tests := []struct {
		name             string
		balance          string
		accruedProfits   string
		amount           string
		totalLoans       string
		totalInvestments string
		want             want
	}{
		{
			name:             "no loans, amount within balance",
			balance:          "1000",
			accruedProfits:   "0",
			amount:           "200",
			totalLoans:       "0",
			totalInvestments: "0",
			want:             want{eligible: true, reasonMissing: true},
		},
		{
			name:             "ratio gate rejects when invested below a third of loans",
			balance:          "1000",
			accruedProfits:   "0",
			amount:           "150",
			totalLoans:       "900",
			totalInvestments: "200",
			want:             want{eligible: false, reasonHas: "300.00"},
		},
		{
			name:             "ratio gate passes at exactly one third",
			balance:          "1000",
			accruedProfits:   "50",
			amount:           "150",
			totalLoans:       "900",
			totalInvestments: "300",
			want:             want{eligible: true, reasonMissing: true},
		},
		{
			name:             "accrued profits extend the ceiling",
			balance:          "1000",
			accruedProfits:   "50",
			amount:           "150",
			totalLoans:       "900",
			totalInvestments: "350",
			want:             want{eligible: true, reasonMissing: true},
		},
		{
			name:             "ceiling rejects one unit above non-loan balance plus profits",
			balance:          "1000",
			accruedProfits:   "50",
			amount:           "151",
			totalLoans:       "900",
			totalInvestments: "350",
			want:             want{eligible: false, reasonHas: "150.00"},
		},
		{
			name:             "zero loans skip the ratio gate even with zero investments",
			balance:          "100",
			accruedProfits:   "30",
			amount:           "120",
			totalLoans:       "0",
			totalInvestments: "0",
			want:             want{eligible: true, reasonMissing: true},
		},
		{
			name:             "zero loans, ceiling is balance plus profits",
			balance:          "100",
			accruedProfits:   "30",
			amount:           "131",
			totalLoans:       "0",
			totalInvestments: "0",
			want:             want{eligible: false, reasonHas: "130.00"},
		},
		{
			name:             "amount equal to non-loan balance never consults the gate",
			balance:          "1000",
			accruedProfits:   "0",
			amount:           "100",
			totalLoans:       "900",
			totalInvestments: "0",
			want:             want{eligible: true, reasonMissing: true},
		},
		{
			name:             "ratio reason cites current invested total",
			balance:          "1000",
			accruedProfits:   "0",
			amount:           "500",
			totalLoans:       "900",
			totalInvestments: "299.99",
			want:             want{eligible: false, reasonHas: "299.99"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			wallet := &models.Wallet{
				Balance:        dec(tt.balance),
				AccruedProfits: dec(tt.accruedProfits),
			}

			got := Evaluate(wallet, dec(tt.amount), dec(tt.totalLoans), dec(tt.totalInvestments))

			if got.Eligible != tt.want.eligible {
				t.Fatalf("eligible: got %v, want %v (reason: %q)", got.Eligible, tt.want.eligible, got.Reason)
			}
			if tt.want.reasonMissing && got.Reason != "" {
				t.Fatalf("reason: got %q, want empty", got.Reason)
			}
			if tt.want.reasonHas != "" && !strings.Contains(got.Reason, tt.want.reasonHas) {
				t.Fatalf("reason: got %q, want it to contain %q", got.Reason, tt.want.reasonHas)
			}
		})
	}
}

// The eligibility check sums investments across every status. Withdrawing
// beyond the non-loan balance must stay permitted as long as the lifetime
// invested total clears the one-third threshold, regardless of how the
// individual investments are flagged.
func TestEvaluateCountsAllInvestmentStatuses(t *testing.T) {
	wallet := &models.Wallet{
		Balance:        dec("1000"),
		AccruedProfits: dec("0"),
	}

	// 350 total invested across pending, active and completed records.
	got := Evaluate(wallet, dec("150"), dec("900"), dec("350"))
	if !got.Eligible {
		t.Fatalf("expected eligible with lifetime investments of 350, got rejection: %q", got.Reason)
	}
}
