package utils

import (
	"github.com/shopspring/decimal"
)

// CalculateMonthlyPayment computes an amortized monthly payment.
// Formula: P * r * (1+r)^n / ((1+r)^n - 1), with r the monthly rate.
// Falls back to straight principal/term when the rate is zero.
func CalculateMonthlyPayment(principal decimal.Decimal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	months := decimal.NewFromInt(int64(termMonths))
	if annualRate.IsZero() {
		return principal.Div(months).Round(2)
	}

	monthlyRate := annualRate.Div(decimal.NewFromInt(12))
	compound := decimal.NewFromInt(1).Add(monthlyRate).Pow(months)

	numerator := principal.Mul(monthlyRate).Mul(compound)
	denominator := compound.Sub(decimal.NewFromInt(1))

	return numerator.Div(denominator).Round(2)
}

// TotalRepayment is the full amount repaid over the loan term.
func TotalRepayment(monthlyPayment decimal.Decimal, termMonths int) decimal.Decimal {
	return monthlyPayment.Mul(decimal.NewFromInt(int64(termMonths))).Round(2)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
