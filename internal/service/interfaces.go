// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Expense operations
	SaveExpense(ctx context.Context, expense *model.Expense) error
	GetRecentExpenses(ctx context.Context, limit int) ([]model.Expense, error)
	GetExpensesByPeriod(ctx context.Context, start, end time.Time) ([]model.Expense, error)

	// Debt operations
	SaveDebt(ctx context.Context, debt *model.Debt) error
	ListDebts(ctx context.Context) ([]model.Debt, error)
	UpdateDebtBalance(ctx context.Context, id string, balance decimal.Decimal) error

	// Income source operations
	SaveIncomeSource(ctx context.Context, source *model.IncomeSource) error
	ListIncomeSources(ctx context.Context, activeOnly bool) ([]model.IncomeSource, error)

	// Recurring transaction operations
	SaveRecurringTransaction(ctx context.Context, recurring *model.RecurringTransaction) error
	ListRecurringTransactions(ctx context.Context, activeOnly bool) ([]model.RecurringTransaction, error)

	Migrate(ctx context.Context) error
	Close() error
}
