package utils

import (
	"github.com/shopspring/decimal"
)

var (
	decimalOneHundred = decimal.NewFromInt(100)
	decimalOneCent    = decimal.New(1, -2)
)

// PaymentSchedule splits total into count installments that sum to total
// rounded to the cent. base is the largest 2-decimal amount with
// base*count <= total; the leftover cents go one each to the earliest
// installments, so the spread between any two installments is at most 0.01.
//
// count < 1 returns ErrorInvalidSplitCount; a negative total returns
// ErrorInvalidAmount. Callers deal in the currency's minor unit only; no
// rounding drift is tolerated.
func PaymentSchedule(total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if count < 1 {
		return nil, ErrorInvalidSplitCount
	}
	if total.IsNegative() {
		return nil, ErrorInvalidAmount
	}

	countDec := decimal.NewFromInt(int64(count))

	// base = floor(total / count * 100) / 100
	base := total.Div(countDec).Mul(decimalOneHundred).Floor().Div(decimalOneHundred)

	// remainderCents = round(total * 100) - round(base * 100) * count
	totalCents := total.Mul(decimalOneHundred).Round(0)
	baseCents := base.Mul(decimalOneHundred).Round(0)
	remainderCents := totalCents.Sub(baseCents.Mul(countDec)).IntPart()

	amounts := make([]decimal.Decimal, count)
	for i := range amounts {
		if int64(i) < remainderCents {
			amounts[i] = base.Add(decimalOneCent)
		} else {
			amounts[i] = base
		}
	}
	return amounts, nil
}

// PaymentScheduleFloat is a convenience wrapper for callers holding float
// totals (request payloads). Non-finite totals are rejected by decimal
// construction at the call site; the decimal path is authoritative.
func PaymentScheduleFloat(total float64, count int) ([]decimal.Decimal, error) {
	if total != total || total > 1e15 || total < -1e15 {
		// NaN or out of any sane monetary range.
		return nil, ErrorInvalidAmount
	}
	return PaymentSchedule(decimal.NewFromFloat(total), count)
}
