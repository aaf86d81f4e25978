package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DebtType selects which repayment model the amortization engine runs.
type DebtType string

const (
	// DebtOneTime has no interest; the balance is paid down in flat
	// monthly installments.
	DebtOneTime DebtType = "one-time"
	// DebtInterestPush accrues interest each month; when the payment
	// does not cover the accrued interest the shortfall is pushed onto
	// the balance and the debt grows.
	DebtInterestPush DebtType = "interest-push"
	// DebtAmortizing is a standard amortizing loan with a clamped
	// final payment.
	DebtAmortizing DebtType = "amortizing"
)

// Compounding controls how the annual rate is spread across months.
type Compounding string

const (
	// CompoundMonthly spreads the annual rate over 12 months.
	CompoundMonthly Compounding = "monthly"
	// CompoundQuarterly spreads a quarter's interest evenly over its
	// 3 months.
	CompoundQuarterly Compounding = "quarterly"
	// CompoundAnnually spreads the annual rate evenly over 12 months.
	CompoundAnnually Compounding = "annually"
)

// Debt is the input to the amortization engine. CurrentBalance tracks
// recorded payments over the life of the debt; the engine itself always
// simulates from Principal.
type Debt struct {
	ID               string
	Name             string
	Type             DebtType
	Compounding      Compounding
	Principal        decimal.Decimal
	AnnualRatePercent decimal.Decimal
	MonthlyPayment   decimal.Decimal
	CurrentBalance   decimal.Decimal
}

// Validate ensures the debt is simulatable.
func (d *Debt) Validate() error {
	switch d.Type {
	case DebtOneTime, DebtInterestPush, DebtAmortizing:
	default:
		return fmt.Errorf("unknown debt type %q", d.Type)
	}
	switch d.Compounding {
	case CompoundMonthly, CompoundQuarterly, CompoundAnnually:
	case "":
		// Compounding is irrelevant for one-time debts.
		if d.Type != DebtOneTime {
			return fmt.Errorf("compounding is required for %s debts", d.Type)
		}
	default:
		return fmt.Errorf("unknown compounding %q", d.Compounding)
	}
	if d.Principal.IsNegative() {
		return fmt.Errorf("principal must not be negative")
	}
	if d.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("annual rate must not be negative")
	}
	if !d.MonthlyPayment.IsPositive() {
		return fmt.Errorf("monthly payment must be positive")
	}
	return nil
}

// AmortizationEntry is one simulated month of a payment schedule.
type AmortizationEntry struct {
	Month     int
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal
}
