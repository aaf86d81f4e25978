package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndQueryExpenses(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cost := decimal.RequireFromString("23.00")
	expense := model.Expense{
		Date:            time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC),
		Amount:          decimal.RequireFromString("500.00"),
		Recipient:       "JOHN DOE",
		Category:        "Family",
		Reference:       "TAE4HW8QWE",
		PhoneNumber:     "0712345678",
		Type:            model.TypeSend,
		TransactionCost: &cost,
	}
	require.NoError(t, store.SaveExpense(ctx, &expense))
	assert.NotEmpty(t, expense.ID)

	got, err := store.GetRecentExpenses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, expense.ID, got[0].ID)
	assert.True(t, got[0].Amount.Equal(expense.Amount), "amount = %s", got[0].Amount)
	assert.Equal(t, "JOHN DOE", got[0].Recipient)
	assert.Equal(t, "Family", got[0].Category)
	assert.Equal(t, model.TypeSend, got[0].Type)
	require.NotNil(t, got[0].TransactionCost)
	assert.True(t, got[0].TransactionCost.Equal(cost))
	assert.Nil(t, got[0].Balance)
}

func TestSaveExpenseDuplicateHash(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	expense := model.Expense{
		Date:      time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("500.00"),
		Recipient: "JOHN DOE",
		Reference: "TAE4HW8QWE",
		Type:      model.TypeSend,
	}
	require.NoError(t, store.SaveExpense(ctx, &expense))

	dup := expense
	dup.ID = ""
	err := store.SaveExpense(ctx, &dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestGetRecentExpensesOrderAndLimit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		expense := model.Expense{
			Date:      base.AddDate(0, 0, i),
			Amount:    decimal.NewFromInt(int64(100 + i)),
			Recipient: "SHOP",
			Type:      model.TypeBuy,
		}
		require.NoError(t, store.SaveExpense(ctx, &expense))
	}

	got, err := store.GetRecentExpenses(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Newest first.
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(104)))
	assert.True(t, got[2].Amount.Equal(decimal.NewFromInt(102)))
}

func TestGetExpensesByPeriod(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		expense := model.Expense{
			Date:   d,
			Amount: decimal.NewFromInt(int64(100 + i)),
			Type:   model.TypeBuy,
		}
		require.NoError(t, store.SaveExpense(ctx, &expense))
	}

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	got, err := store.GetExpensesByPeriod(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ascending within the window; the end bound is exclusive.
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(101)))
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(102)))
}

func TestSaveAndListDebts(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	debt := model.Debt{
		Name:              "Car loan",
		Type:              model.DebtAmortizing,
		Compounding:       model.CompoundMonthly,
		Principal:         decimal.NewFromInt(500000),
		AnnualRatePercent: decimal.NewFromInt(13),
		MonthlyPayment:    decimal.NewFromInt(17000),
	}
	require.NoError(t, store.SaveDebt(ctx, &debt))
	assert.NotEmpty(t, debt.ID)

	got, err := store.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Car loan", got[0].Name)
	assert.Equal(t, model.DebtAmortizing, got[0].Type)
	// Balance seeds from principal.
	assert.True(t, got[0].CurrentBalance.Equal(debt.Principal))
}

func TestUpdateDebtBalance(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	debt := model.Debt{
		Name:           "Soft loan",
		Type:           model.DebtOneTime,
		Principal:      decimal.NewFromInt(20000),
		MonthlyPayment: decimal.NewFromInt(5000),
	}
	require.NoError(t, store.SaveDebt(ctx, &debt))

	require.NoError(t, store.UpdateDebtBalance(ctx, debt.ID, decimal.NewFromInt(15000)))

	got, err := store.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CurrentBalance.Equal(decimal.NewFromInt(15000)))

	// Negative balances floor at zero.
	require.NoError(t, store.UpdateDebtBalance(ctx, debt.ID, decimal.NewFromInt(-100)))
	got, err = store.ListDebts(ctx)
	require.NoError(t, err)
	assert.True(t, got[0].CurrentBalance.IsZero())

	err = store.UpdateDebtBalance(ctx, "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveAndListIncomeSources(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	december := 12
	active := model.IncomeSource{
		Name:      "Salary",
		Amount:    decimal.NewFromInt(85000),
		PaydayDay: 25,
		IsActive:  true,
	}
	bonus := model.IncomeSource{
		Name:        "Bonus",
		Amount:      decimal.NewFromInt(40000),
		PaydayDay:   20,
		PaydayMonth: &december,
		IsActive:    false,
	}
	require.NoError(t, store.SaveIncomeSource(ctx, &active))
	require.NoError(t, store.SaveIncomeSource(ctx, &bonus))

	all, err := store.ListIncomeSources(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	activeOnly, err := store.ListIncomeSources(ctx, true)
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "Salary", activeOnly[0].Name)
	assert.Nil(t, activeOnly[0].PaydayMonth)

	for _, src := range all {
		if src.Name == "Bonus" {
			require.NotNil(t, src.PaydayMonth)
			assert.Equal(t, 12, *src.PaydayMonth)
		}
	}
}

func TestSaveAndListRecurringTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rent := model.RecurringTransaction{
		Name:          "Rent",
		PaybillNumber: "888880",
		AccountNumber: "HSE-12B",
		Amount:        decimal.NewFromInt(25000),
		IsActive:      true,
	}
	require.NoError(t, store.SaveRecurringTransaction(ctx, &rent))

	invalid := model.RecurringTransaction{Amount: decimal.NewFromInt(100)}
	assert.Error(t, store.SaveRecurringTransaction(ctx, &invalid))

	got, err := store.ListRecurringTransactions(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "888880", got[0].PaybillNumber)
	assert.Equal(t, "HSE-12B", got[0].AccountNumber)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(25000)))
}
