package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// SaveDebt inserts a debt, seeding the tracked balance from the
// principal when unset.
func (s *SQLiteStorage) SaveDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if debt == nil {
		return fmt.Errorf("%w: debt", ErrNilParameter)
	}
	if err := debt.Validate(); err != nil {
		return fmt.Errorf("invalid debt: %w", err)
	}

	if debt.ID == "" {
		debt.ID = newID()
	}
	if debt.CurrentBalance.IsZero() && debt.Principal.IsPositive() {
		debt.CurrentBalance = debt.Principal
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (
			id, name, debt_type, compounding, principal, annual_rate,
			monthly_payment, current_balance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.ID,
		debt.Name,
		string(debt.Type),
		nullString(string(debt.Compounding)),
		debt.Principal.String(),
		debt.AnnualRatePercent.String(),
		debt.MonthlyPayment.String(),
		debt.CurrentBalance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save debt: %w", err)
	}

	return nil
}

// ListDebts returns all debts, open balances first.
func (s *SQLiteStorage) ListDebts(ctx context.Context) ([]model.Debt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, debt_type, compounding, principal, annual_rate,
			monthly_payment, current_balance
		FROM debts
		ORDER BY CAST(current_balance AS REAL) DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var debts []model.Debt
	for rows.Next() {
		var d model.Debt
		var debtType string
		var compounding sql.NullString
		var principal, rate, payment, balance string

		if err := rows.Scan(&d.ID, &d.Name, &debtType, &compounding,
			&principal, &rate, &payment, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}

		d.Type = model.DebtType(debtType)
		d.Compounding = model.Compounding(compounding.String)
		if d.Principal, err = decimal.NewFromString(principal); err != nil {
			return nil, fmt.Errorf("corrupt debt principal %q: %w", principal, err)
		}
		if d.AnnualRatePercent, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("corrupt debt rate %q: %w", rate, err)
		}
		if d.MonthlyPayment, err = decimal.NewFromString(payment); err != nil {
			return nil, fmt.Errorf("corrupt debt payment %q: %w", payment, err)
		}
		if d.CurrentBalance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("corrupt debt balance %q: %w", balance, err)
		}

		debts = append(debts, d)
	}

	return debts, rows.Err()
}

// UpdateDebtBalance records the balance after a payment. The balance
// floors at zero; a fully paid debt is conceptually closed.
func (s *SQLiteStorage) UpdateDebtBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE debts SET current_balance = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		balance.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update debt balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
	}

	return nil
}
