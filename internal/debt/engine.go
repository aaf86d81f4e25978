// Package debt simulates debt repayment: one-time, interest-push and
// amortizing models, plus the annuity payment needed to clear a debt
// over a target horizon.
package debt

import (
	"fmt"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// maxMonths caps the simulation so a payment smaller than the accruing
// interest cannot loop forever. Hitting the cap with a positive
// balance is reported as non-convergence, never silently truncated.
const maxMonths = 1200

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Result is the outcome of a debt simulation.
type Result struct {
	MonthlyPayment decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalPayment   decimal.Decimal
	Schedule       []model.AmortizationEntry
	PayoffMonths   int
	NonConvergent  bool
}

// Calculate runs the repayment model selected by the debt's type. It
// only errors on invalid input; pathological-but-valid inputs produce
// a Result with NonConvergent set.
func Calculate(d model.Debt) (Result, error) {
	if err := d.Validate(); err != nil {
		return Result{}, err
	}

	switch d.Type {
	case model.DebtOneTime:
		return calculateOneTime(d), nil
	default:
		return simulate(d), nil
	}
}

// calculateOneTime is a flat division: no interest, no schedule.
func calculateOneTime(d model.Debt) Result {
	months := 0
	if d.Principal.IsPositive() {
		months = int(d.Principal.Div(d.MonthlyPayment).Ceil().IntPart())
	}
	return Result{
		MonthlyPayment: d.MonthlyPayment,
		TotalInterest:  decimal.Zero,
		TotalPayment:   d.Principal,
		PayoffMonths:   months,
	}
}

// simulate runs the month-by-month loop shared by the interest-push
// and amortizing models. The two differ only in the final month: the
// amortizing model clamps the last payment to the remaining balance
// plus interest instead of overpaying.
func simulate(d model.Debt) Result {
	rate := monthlyRate(d)
	balance := d.Principal
	payment := d.MonthlyPayment

	result := Result{
		MonthlyPayment: payment,
		Schedule:       make([]model.AmortizationEntry, 0, 64),
	}

	for month := 1; month <= maxMonths && balance.IsPositive(); month++ {
		interest := balance.Mul(rate)

		var principalPaid, actualPayment decimal.Decimal
		if payment.LessThan(interest) {
			// Shortfall months: the whole payment counts as interest
			// and the uncovered interest grows the balance.
			actualPayment = payment
			principalPaid = decimal.Zero
			balance = balance.Add(interest.Sub(payment))
			result.TotalInterest = result.TotalInterest.Add(payment)
		} else {
			actualPayment = payment
			principalPaid = payment.Sub(interest)
			balance = balance.Sub(principalPaid)

			if balance.IsNegative() && d.Type == model.DebtAmortizing {
				// Final month: pay exactly what remains.
				actualPayment = payment.Add(balance)
				principalPaid = principalPaid.Add(balance)
				balance = decimal.Zero
			} else if balance.IsNegative() {
				balance = decimal.Zero
			}
			result.TotalInterest = result.TotalInterest.Add(interest)
		}

		result.TotalPayment = result.TotalPayment.Add(actualPayment)
		result.PayoffMonths = month
		result.Schedule = append(result.Schedule, model.AmortizationEntry{
			Month:     month,
			Payment:   actualPayment.Round(2),
			Principal: principalPaid.Round(2),
			Interest:  interest.Round(2),
			Balance:   balance.Round(2),
		})
	}

	if balance.IsPositive() {
		result.NonConvergent = true
	}

	return result
}

// monthlyRate converts the annual percentage into the per-month
// accrual factor. Quarterly compounding spreads a quarter's interest
// evenly over its 3 months (/4/3) while annual compounding spreads the
// annual rate over 12 (/12); the divisors are intentionally asymmetric
// because users already rely on these figures.
func monthlyRate(d model.Debt) decimal.Decimal {
	annual := d.AnnualRatePercent.Div(hundred)
	switch d.Compounding {
	case model.CompoundQuarterly:
		return annual.Div(decimal.NewFromInt(4)).Div(decimal.NewFromInt(3))
	default:
		// Monthly and annually both spread across 12 months.
		return annual.Div(twelve)
	}
}

// RequiredPayment computes the monthly payment that amortizes the
// principal at the given annual rate over exactly targetMonths, using
// the standard annuity formula. The result is rounded up to the next
// cent so the payoff is never missed by rounding down.
func RequiredPayment(principal, annualRatePercent decimal.Decimal, targetMonths int) (decimal.Decimal, error) {
	if targetMonths < 1 {
		return decimal.Zero, fmt.Errorf("target months must be at least 1")
	}
	if principal.IsNegative() || annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("principal and rate must not be negative")
	}

	months := decimal.NewFromInt(int64(targetMonths))
	rate := annualRatePercent.Div(hundred).Div(twelve)

	if rate.IsZero() {
		return principal.Div(months).RoundCeil(2), nil
	}

	// payment = P * r * (1+r)^n / ((1+r)^n - 1)
	growth := decimal.NewFromInt(1).Add(rate).Pow(months)
	payment := principal.Mul(rate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	return payment.RoundCeil(2), nil
}
