package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/config"
	"github.com/pesatrack/pesatrack/internal/service"
	"github.com/pesatrack/pesatrack/internal/storage"
)

// initStorage opens the SQLite store and applies any pending
// migrations. Callers own the returned store and must Close it.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseAmountFlag converts a required money flag into a decimal.
func parseAmountFlag(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("--%s is required", name)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("--%s must be positive", name)
	}
	return amount, nil
}

// parseRateFlag is parseAmountFlag for interest rates, where zero is a
// legitimate value.
func parseRateFlag(value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --rate %q: %w", value, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("--rate must not be negative")
	}
	return rate, nil
}
