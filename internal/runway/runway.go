package runway

import (
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// RunwayStatus colors the runway verdict.
type RunwayStatus string

const (
	// RunwaySuccess means at least 5 days of buffer at the current
	// spend rate.
	RunwaySuccess RunwayStatus = "success"
	// RunwayWarning means the user scrapes through with under 5 days
	// of buffer.
	RunwayWarning RunwayStatus = "warning"
	// RunwayDanger means the projection goes negative before payday.
	RunwayDanger RunwayStatus = "danger"
)

// bufferDaysForSuccess is the spend-rate buffer separating success
// from warning.
var bufferDaysForSuccess = decimal.NewFromInt(5)

// RunwayReport is the payday projection. NextPayday is nil when no
// active income source exists; the caller should prompt the user to
// set up income rather than show numbers.
type RunwayReport struct {
	NextPayday           *time.Time
	DailyAverageSpend    decimal.Decimal
	ProjectedBalance     decimal.Decimal
	ProjectedDailyBudget decimal.Decimal
	Status               RunwayStatus
	Discipline           Trend
	DaysToPayday         int
	WillMakeIt           bool
	HasIncome            bool
}

// NextPayday finds the nearest upcoming payday across all active
// income sources, checking both this month's and next month's
// occurrence of each source's payday and picking the soonest date
// strictly after the reference date. Returns nil with no active
// sources.
func NextPayday(sources []model.IncomeSource, ref time.Time) *time.Time {
	var nearest *time.Time

	consider := func(candidate time.Time) {
		if !candidate.After(ref) {
			return
		}
		if nearest == nil || candidate.Before(*nearest) {
			nearest = &candidate
		}
	}

	for _, s := range sources {
		if !s.IsActive {
			continue
		}

		if s.PaydayMonth != nil {
			// Pinned to one calendar month: this year's occurrence or
			// next year's.
			this := paydayOn(ref.Year(), time.Month(*s.PaydayMonth), s.PaydayDay, ref.Location())
			consider(this)
			consider(paydayOn(ref.Year()+1, time.Month(*s.PaydayMonth), s.PaydayDay, ref.Location()))
			continue
		}

		consider(paydayOn(ref.Year(), ref.Month(), s.PaydayDay, ref.Location()))
		nextMonth := ref.AddDate(0, 1, 0)
		consider(paydayOn(nextMonth.Year(), nextMonth.Month(), s.PaydayDay, ref.Location()))
	}

	return nearest
}

// paydayOn builds the payday date, clamping day 29–31 to the month's
// actual length.
func paydayOn(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// CashRunway projects whether currentCash lasts until the next payday
// at the month's observed daily spend rate. debtPaid is the month's
// debt payments to fold into the spend rate; pass zero when untracked.
func CashRunway(currentCash decimal.Decimal, sources []model.IncomeSource, expenses []model.Expense, debtPaid decimal.Decimal, ref time.Time) RunwayReport {
	report := RunwayReport{Discipline: TrendNeutral}

	payday := NextPayday(sources, ref)
	if payday == nil {
		return report
	}
	report.NextPayday = payday
	report.HasIncome = true
	report.DaysToPayday = daysBetweenDates(ref, *payday)

	daysElapsed := ref.Day()
	spent := sumExpensesInMonth(expenses, ref).Add(debtPaid)
	report.DailyAverageSpend = spent.Div(decimal.NewFromInt(int64(daysElapsed))).Round(2)

	projected := currentCash.Sub(report.DailyAverageSpend.Mul(decimal.NewFromInt(int64(report.DaysToPayday))))
	report.ProjectedBalance = projected.Round(2)
	report.WillMakeIt = !report.ProjectedBalance.IsNegative()
	report.ProjectedDailyBudget = currentCash.Div(decimal.NewFromInt(int64(report.DaysToPayday))).Round(2)

	switch {
	case report.ProjectedBalance.IsNegative():
		report.Status = RunwayDanger
	case report.DailyAverageSpend.IsZero():
		report.Status = RunwaySuccess
	case report.ProjectedBalance.Div(report.DailyAverageSpend).GreaterThanOrEqual(bufferDaysForSuccess):
		report.Status = RunwaySuccess
	default:
		report.Status = RunwayWarning
	}

	// Same discipline comparison as the cash-flow report, computed
	// independently from this calculator's inputs.
	income := MonthlyIncome(sources, ref)
	lastMonth := ref.AddDate(0, -1, 0)
	previousIncome := MonthlyIncome(sources, lastMonth)
	if income.IsPositive() && previousIncome.IsPositive() {
		current := spentPercent(spent, income)
		previous := spentPercent(sumExpensesInMonth(expenses, lastMonth), previousIncome)
		report.Discipline = compareDiscipline(current, previous)
	}

	return report
}

// daysBetweenDates counts calendar days from the reference date to the
// target, ignoring time of day.
func daysBetweenDates(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(toDay.Sub(fromDay).Hours() / 24)
}
