package runway

import (
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPaydayPicksSoonest(t *testing.T) {
	sources := []model.IncomeSource{
		salary("50000", 25),
		salary("8000", 1),
	}

	// Ref is March 15: March 1 already passed, so the candidates are
	// March 25 and April 1.
	payday := NextPayday(sources, ref)
	require.NotNil(t, payday)
	assert.Equal(t, time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC), *payday)
}

func TestNextPaydayRollsToNextMonth(t *testing.T) {
	sources := []model.IncomeSource{salary("50000", 10)}

	payday := NextPayday(sources, ref)
	require.NotNil(t, payday)
	assert.Equal(t, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), *payday)
}

func TestNextPaydayTodayIsNotUpcoming(t *testing.T) {
	// A payday on the reference day itself has already happened; the
	// next one is strictly in the future.
	sources := []model.IncomeSource{salary("50000", 15)}

	payday := NextPayday(sources, ref)
	require.NotNil(t, payday)
	assert.Equal(t, time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC), *payday)
}

func TestNextPaydayClampsShortMonths(t *testing.T) {
	sources := []model.IncomeSource{salary("50000", 31)}

	payday := NextPayday(sources, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, payday)
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), *payday)
}

func TestNextPaydayPinnedMonth(t *testing.T) {
	december := 12
	bonus := salary("30000", 20)
	bonus.PaydayMonth = &december

	payday := NextPayday([]model.IncomeSource{bonus}, ref)
	require.NotNil(t, payday)
	assert.Equal(t, time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC), *payday)

	// Past this year's occurrence, it rolls to next year.
	late := time.Date(2026, time.December, 28, 0, 0, 0, 0, time.UTC)
	payday = NextPayday([]model.IncomeSource{bonus}, late)
	require.NotNil(t, payday)
	assert.Equal(t, time.Date(2027, time.December, 20, 0, 0, 0, 0, time.UTC), *payday)
}

func TestNextPaydayNoSources(t *testing.T) {
	assert.Nil(t, NextPayday(nil, ref))

	inactive := salary("50000", 25)
	inactive.IsActive = false
	assert.Nil(t, NextPayday([]model.IncomeSource{inactive}, ref))
}

func TestCashRunwayProjection(t *testing.T) {
	sources := []model.IncomeSource{salary("50000", 25)}
	// 15,000 spent over the 15 days elapsed: 1,000/day. Payday is in
	// 10 days.
	expenses := []model.Expense{spend("15000", ref.AddDate(0, 0, -5))}

	report := CashRunway(decimal.NewFromInt(15000), sources, expenses, decimal.Zero, ref)
	require.NotNil(t, report.NextPayday)
	assert.Equal(t, 10, report.DaysToPayday)
	assert.True(t, report.DailyAverageSpend.Equal(decimal.NewFromInt(1000)), "daily spend = %s", report.DailyAverageSpend)
	assert.True(t, report.ProjectedBalance.Equal(decimal.NewFromInt(5000)), "projected = %s", report.ProjectedBalance)
	assert.True(t, report.WillMakeIt)
	assert.True(t, report.ProjectedDailyBudget.Equal(decimal.NewFromInt(1500)), "budget = %s", report.ProjectedDailyBudget)
	// Exactly 5 days of buffer at the current rate.
	assert.Equal(t, RunwaySuccess, report.Status)
}

func TestCashRunwayStatuses(t *testing.T) {
	tests := []struct {
		name string
		cash string
		want RunwayStatus
	}{
		{name: "five or more buffer days", cash: "15000", want: RunwaySuccess},
		{name: "scraping through", cash: "12000", want: RunwayWarning},
		{name: "projected negative", cash: "5000", want: RunwayDanger},
	}

	sources := []model.IncomeSource{salary("50000", 25)}
	expenses := []model.Expense{spend("15000", ref.AddDate(0, 0, -5))}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := CashRunway(decimal.RequireFromString(tt.cash), sources, expenses, decimal.Zero, ref)
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, tt.want != RunwayDanger, report.WillMakeIt)
		})
	}
}

func TestCashRunwayIncludesDebtPayments(t *testing.T) {
	sources := []model.IncomeSource{salary("50000", 25)}
	expenses := []model.Expense{spend("7500", ref.AddDate(0, 0, -5))}

	// 7,500 expenses + 7,500 debt over 15 days = 1,000/day.
	report := CashRunway(decimal.NewFromInt(20000), sources, expenses, decimal.NewFromInt(7500), ref)
	assert.True(t, report.DailyAverageSpend.Equal(decimal.NewFromInt(1000)), "daily spend = %s", report.DailyAverageSpend)
}

func TestCashRunwayNoIncomeSources(t *testing.T) {
	report := CashRunway(decimal.NewFromInt(10000), nil, nil, decimal.Zero, ref)

	assert.Nil(t, report.NextPayday)
	assert.False(t, report.HasIncome)
	assert.False(t, report.WillMakeIt)
	assert.Zero(t, report.DaysToPayday)
}

func TestCashRunwayZeroSpendIsSuccess(t *testing.T) {
	sources := []model.IncomeSource{salary("50000", 25)}

	report := CashRunway(decimal.NewFromInt(100), sources, nil, decimal.Zero, ref)
	assert.Equal(t, RunwaySuccess, report.Status)
	assert.True(t, report.WillMakeIt)
}
