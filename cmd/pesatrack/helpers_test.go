package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/pesatrack/pesatrack/internal/storage"
)

func TestParseAmountFlag(t *testing.T) {
	amount, err := parseAmountFlag("cash", "1500.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("1500.50")))

	_, err = parseAmountFlag("cash", "")
	assert.Error(t, err)

	_, err = parseAmountFlag("cash", "abc")
	assert.Error(t, err)

	_, err = parseAmountFlag("cash", "-5")
	assert.Error(t, err)
}

func TestParseRateFlag(t *testing.T) {
	rate, err := parseRateFlag("0")
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	rate, err = parseRateFlag("13.5")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("13.5")))

	_, err = parseRateFlag("-1")
	assert.Error(t, err)
}

func TestCollectMessages(t *testing.T) {
	args := []string{"Confirmed. Ksh500.00 sent to JANE"}

	got, err := collectMessages(args, "")
	require.NoError(t, err)
	assert.Equal(t, args, got)

	path := filepath.Join(t.TempDir(), "messages.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0o600))

	got, err = collectMessages(nil, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two"}, got)

	_, err = collectMessages(args, path)
	assert.Error(t, err, "args and --file together should be rejected")

	_, err = collectMessages(nil, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadProjectionInputsFrom(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	salary := model.IncomeSource{
		Name:      "Salary",
		Amount:    decimal.NewFromInt(80000),
		PaydayDay: 25,
		IsActive:  true,
	}
	require.NoError(t, store.SaveIncomeSource(ctx, &salary))

	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	inWindow := model.Expense{
		Date:   time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(2000),
		Type:   model.TypeBuy,
	}
	outOfWindow := model.Expense{
		Date:   time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(9000),
		Type:   model.TypeBuy,
	}
	require.NoError(t, store.SaveExpense(ctx, &inWindow))
	require.NoError(t, store.SaveExpense(ctx, &outOfWindow))

	sources, expenses, err := loadProjectionInputsFrom(ctx, store, now)
	require.NoError(t, err)

	require.Len(t, sources, 1)
	assert.Equal(t, "Salary", sources[0].Name)

	// Only last month onward feeds the projections.
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(2000)))
}
