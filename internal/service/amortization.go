package service

import (
	"github.com/shopspring/decimal"

	customError "github.com/mycredit/lending-engine/pkg/errors"
	"github.com/mycredit/lending-engine/pkg/money"
)

// AmortizationResult holds the financial terms computed at approval.
type AmortizationResult struct {
	Amortization  decimal.Decimal
	TotalInterest decimal.Decimal
	Fees          decimal.Decimal
	Profit        decimal.Decimal
}

// ComputeAmortization derives the fixed periodic installment for a flat
// declining-balance loan:
//
//	amortization = principal * rate / (1 - (1 + rate)^-term)
//
// computed as principal*rate*q^term/(q^term - 1) with q = 1+rate to keep
// the decimal exponent integral. A zero rate degenerates to straight
// division. Fees default to principal * feeRate, profit to the total
// interest over the term; callers may override either.
func ComputeAmortization(principal decimal.Decimal, termMonths int, rate, feeRate decimal.Decimal) (AmortizationResult, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return AmortizationResult{}, customError.WrapValidation("principal must be greater than zero")
	}
	if termMonths <= 0 {
		return AmortizationResult{}, customError.WrapValidation("term must be greater than zero")
	}
	if rate.IsNegative() {
		return AmortizationResult{}, customError.WrapValidation("interest rate must not be negative")
	}

	term := decimal.NewFromInt(int64(termMonths))

	var amortization decimal.Decimal
	if rate.IsZero() {
		amortization = money.Round(principal.Div(term))
	} else {
		qn := decimal.NewFromInt(1).Add(rate).Pow(term)
		amortization = money.Round(principal.Mul(rate).Mul(qn).Div(qn.Sub(decimal.NewFromInt(1))))
	}

	totalInterest := amortization.Mul(term).Sub(principal)

	return AmortizationResult{
		Amortization:  amortization,
		TotalInterest: totalInterest,
		Fees:          money.Round(principal.Mul(feeRate)),
		Profit:        money.Round(totalInterest),
	}, nil
}
