// Package runway projects cash-flow health and whether the user's
// money lasts until the next payday.
package runway

import (
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// HealthStatus is the tri-state verdict for the current month.
type HealthStatus string

const (
	// StatusHealthy means less than 70% of income is spent.
	StatusHealthy HealthStatus = "healthy"
	// StatusCaution means 70–90% of income is spent.
	StatusCaution HealthStatus = "caution"
	// StatusCritical means 90% or more is spent, or the balance is
	// already negative.
	StatusCritical HealthStatus = "critical"
)

// allowanceDivisor is deliberately a flat 30, not days-remaining: the
// allowance reads as a stable month-long figure rather than shrinking
// as the month ends.
var allowanceDivisor = decimal.NewFromInt(30)

// CashFlowReport summarizes the current calendar month.
type CashFlowReport struct {
	Income           decimal.Decimal
	Expenses         decimal.Decimal
	RemainingBalance decimal.Decimal
	DailyAllowance   decimal.Decimal
	SpentPercent     float64
	Status           HealthStatus
	Discipline       Trend
	HasIncome        bool
}

// MonthlyIncome sums the active income sources that pay out in the
// reference month: every-month sources plus those pinned to that
// calendar month.
func MonthlyIncome(sources []model.IncomeSource, ref time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sources {
		if !s.IsActive {
			continue
		}
		if s.PaydayMonth != nil && *s.PaydayMonth != int(ref.Month()) {
			continue
		}
		total = total.Add(s.Amount)
	}
	return total
}

// CashFlowHealth computes the month's income/expense totals, the
// remaining balance and daily allowance, a health verdict, and the
// discipline trend against last month. With no active income it
// degrades to a zeroed report with HasIncome false instead of
// dividing by zero.
func CashFlowHealth(sources []model.IncomeSource, expenses []model.Expense, ref time.Time) CashFlowReport {
	income := MonthlyIncome(sources, ref)
	spent := sumExpensesInMonth(expenses, ref)

	report := CashFlowReport{
		Income:     income,
		Expenses:   spent,
		HasIncome:  income.IsPositive(),
		Discipline: TrendNeutral,
	}

	report.RemainingBalance = income.Sub(spent)
	report.DailyAllowance = report.RemainingBalance.Div(allowanceDivisor).Round(2)

	if !report.HasIncome {
		report.Status = StatusCritical
		return report
	}

	report.SpentPercent = spentPercent(spent, income)
	switch {
	case report.RemainingBalance.IsNegative() || report.SpentPercent >= 90:
		report.Status = StatusCritical
	case report.SpentPercent >= 70:
		report.Status = StatusCaution
	default:
		report.Status = StatusHealthy
	}

	lastMonth := ref.AddDate(0, -1, 0)
	previousIncome := MonthlyIncome(sources, lastMonth)
	if previousIncome.IsPositive() {
		previousSpent := sumExpensesInMonth(expenses, lastMonth)
		report.Discipline = compareDiscipline(report.SpentPercent, spentPercent(previousSpent, previousIncome))
	}

	return report
}

func spentPercent(spent, income decimal.Decimal) float64 {
	return spent.Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// sumExpensesInMonth totals expenses within the reference month's
// calendar bounds.
func sumExpensesInMonth(expenses []model.Expense, ref time.Time) decimal.Decimal {
	start, end := monthBounds(ref)
	total := decimal.Zero
	for _, e := range expenses {
		if e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

func monthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}
