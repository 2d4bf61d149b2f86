package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaymentSchedule_RemainderCentsGoFirst(t *testing.T) {
	amounts, err := PaymentSchedule(decimal.NewFromFloat(100.00), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"33.34", "33.33", "33.33"}
	if len(amounts) != len(want) {
		t.Fatalf("expected %d installments, got %d", len(want), len(amounts))
	}
	for i, w := range want {
		if amounts[i].StringFixed(2) != w {
			t.Errorf("installment %d: expected %s, got %s", i, w, amounts[i].StringFixed(2))
		}
	}
}

func TestPaymentSchedule_SumMatchesRoundedTotal(t *testing.T) {
	cases := []struct {
		total string
		count int
	}{
		{"0", 1},
		{"0.01", 3},
		{"0.02", 3},
		{"1", 3},
		{"10", 7},
		{"99.99", 2},
		{"100.00", 3},
		{"100.005", 3},
		{"1234.56", 5},
		{"333.33", 3},
		{"0.10", 4},
		{"7777.77", 12},
	}

	for _, tc := range cases {
		total := decimal.RequireFromString(tc.total)
		amounts, err := PaymentSchedule(total, tc.count)
		if err != nil {
			t.Fatalf("total=%s count=%d: unexpected error: %v", tc.total, tc.count, err)
		}
		if len(amounts) != tc.count {
			t.Fatalf("total=%s count=%d: got %d installments", tc.total, tc.count, len(amounts))
		}

		sum := decimal.Zero
		for _, a := range amounts {
			if a.IsNegative() {
				t.Errorf("total=%s count=%d: negative installment %s", tc.total, tc.count, a)
			}
			sum = sum.Add(a)
		}
		if !sum.Equal(total.Round(2)) {
			t.Errorf("total=%s count=%d: sum %s != rounded total %s", tc.total, tc.count, sum, total.Round(2))
		}
	}
}

func TestPaymentSchedule_SpreadAtMostOneCent(t *testing.T) {
	for count := 1; count <= 13; count++ {
		total := decimal.RequireFromString("1000.01")
		amounts, err := PaymentSchedule(total, count)
		if err != nil {
			t.Fatalf("count=%d: unexpected error: %v", count, err)
		}

		minAmt, maxAmt := amounts[0], amounts[0]
		for _, a := range amounts[1:] {
			if a.LessThan(minAmt) {
				minAmt = a
			}
			if a.GreaterThan(maxAmt) {
				maxAmt = a
			}
		}
		if maxAmt.Sub(minAmt).GreaterThan(decimal.New(1, -2)) {
			t.Errorf("count=%d: spread %s exceeds one cent", count, maxAmt.Sub(minAmt))
		}
	}
}

func TestPaymentSchedule_LargerEarlier(t *testing.T) {
	// The extra cents always land on the earliest installments.
	amounts, err := PaymentSchedule(decimal.RequireFromString("10.05"), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(amounts); i++ {
		if amounts[i].GreaterThan(amounts[i-1]) {
			t.Errorf("installment %d (%s) greater than installment %d (%s)", i, amounts[i], i-1, amounts[i-1])
		}
	}
}

func TestPaymentSchedule_InvalidInputs(t *testing.T) {
	if _, err := PaymentSchedule(decimal.NewFromInt(100), 0); err != ErrorInvalidSplitCount {
		t.Errorf("count=0: expected ErrorInvalidSplitCount, got %v", err)
	}
	if _, err := PaymentSchedule(decimal.NewFromInt(100), -2); err != ErrorInvalidSplitCount {
		t.Errorf("count=-2: expected ErrorInvalidSplitCount, got %v", err)
	}
	if _, err := PaymentSchedule(decimal.NewFromInt(-1), 2); err != ErrorInvalidAmount {
		t.Errorf("negative total: expected ErrorInvalidAmount, got %v", err)
	}
}

func TestPaymentScheduleFloat_RejectsNonFinite(t *testing.T) {
	nan := 0.0
	nan = nan / nan // quiet NaN without importing math
	if _, err := PaymentScheduleFloat(nan, 2); err != ErrorInvalidAmount {
		t.Errorf("NaN total: expected ErrorInvalidAmount, got %v", err)
	}
	if _, err := PaymentScheduleFloat(1e300, 2); err != ErrorInvalidAmount {
		t.Errorf("huge total: expected ErrorInvalidAmount, got %v", err)
	}
}
