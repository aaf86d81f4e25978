package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// SaveRecurringTransaction inserts a recurring bill template.
func (s *SQLiteStorage) SaveRecurringTransaction(ctx context.Context, recurring *model.RecurringTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if recurring == nil {
		return fmt.Errorf("%w: recurring", ErrNilParameter)
	}
	if err := recurring.Validate(); err != nil {
		return fmt.Errorf("invalid recurring transaction: %w", err)
	}

	if recurring.ID == "" {
		recurring.ID = newID()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (
			id, name, recipient, paybill_number, till_number,
			account_number, amount, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recurring.ID,
		recurring.Name,
		nullString(recurring.Recipient),
		nullString(recurring.PaybillNumber),
		nullString(recurring.TillNumber),
		nullString(recurring.AccountNumber),
		recurring.Amount.String(),
		recurring.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to save recurring transaction: %w", err)
	}

	return nil
}

// ListRecurringTransactions returns the stored templates in insertion
// order, which is also the matcher's tie-break order.
func (s *SQLiteStorage) ListRecurringTransactions(ctx context.Context, activeOnly bool) ([]model.RecurringTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, recipient, paybill_number, till_number,
			account_number, amount, is_active
		FROM recurring_transactions`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []model.RecurringTransaction
	for rows.Next() {
		var r model.RecurringTransaction
		var recipient, paybill, till, account sql.NullString
		var amount string

		if err := rows.Scan(&r.ID, &r.Name, &recipient, &paybill, &till,
			&account, &amount, &r.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan recurring transaction: %w", err)
		}

		r.Recipient = recipient.String
		r.PaybillNumber = paybill.String
		r.TillNumber = till.String
		r.AccountNumber = account.String
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt recurring amount %q: %w", amount, err)
		}

		templates = append(templates, r)
	}

	return templates, rows.Err()
}
