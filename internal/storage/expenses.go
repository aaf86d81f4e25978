package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// Monetary values are stored as decimal strings so no precision is
// lost round-tripping through the database.

func nullMoney(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func scanMoney(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("corrupt monetary value %q: %w", ns.String, err)
	}
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SaveExpense inserts a new expense. A duplicate hash (a re-import of
// the exact same message) returns common.ErrDuplicateEntry. The ID is
// generated when empty.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	if expense.ID == "" {
		expense.ID = newID()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (
			id, hash, date, amount, recipient, category, reference,
			phone_number, paybill_number, till_number, account_number,
			transaction_cost, balance, type, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.GenerateHash(),
		expense.Date,
		expense.Amount.String(),
		nullString(expense.Recipient),
		nullString(expense.Category),
		nullString(expense.Reference),
		nullString(expense.PhoneNumber),
		nullString(expense.PaybillNumber),
		nullString(expense.TillNumber),
		nullString(expense.AccountNumber),
		nullMoney(expense.TransactionCost),
		nullMoney(expense.Balance),
		string(expense.Type),
		nullString(expense.Notes),
		expense.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("expense already stored: %w", common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save expense: %w", err)
	}

	return nil
}

// GetRecentExpenses returns the newest expenses first, bounded by
// limit. This is the window the duplicate detector runs over.
func (s *SQLiteStorage) GetRecentExpenses(ctx context.Context, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1000
	}

	rows, err := s.db.QueryContext(ctx, expenseSelect+`
		ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// GetExpensesByPeriod returns expenses with start <= date < end in
// ascending date order.
func (s *SQLiteStorage) GetExpensesByPeriod(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, expenseSelect+`
		WHERE date >= ? AND date < ? ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by period: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

const expenseSelect = `
	SELECT id, date, amount, recipient, category, reference,
		phone_number, paybill_number, till_number, account_number,
		transaction_cost, balance, type, notes, created_at
	FROM expenses`

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense

	for rows.Next() {
		var e model.Expense
		var amount string
		var recipient, category, reference, phone sql.NullString
		var paybill, till, account, notes sql.NullString
		var cost, balance sql.NullString
		var txnType string

		if err := rows.Scan(
			&e.ID, &e.Date, &amount, &recipient, &category, &reference,
			&phone, &paybill, &till, &account,
			&cost, &balance, &txnType, &notes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt expense amount %q: %w", amount, err)
		}
		e.Amount = d
		e.Recipient = recipient.String
		e.Category = category.String
		e.Reference = reference.String
		e.PhoneNumber = phone.String
		e.PaybillNumber = paybill.String
		e.TillNumber = till.String
		e.AccountNumber = account.String
		e.Notes = notes.String
		e.Type = model.TransactionType(txnType)

		if e.TransactionCost, err = scanMoney(cost); err != nil {
			return nil, err
		}
		if e.Balance, err = scanMoney(balance); err != nil {
			return nil, err
		}

		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}
