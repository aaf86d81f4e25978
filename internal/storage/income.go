package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// SaveIncomeSource inserts an income source.
func (s *SQLiteStorage) SaveIncomeSource(ctx context.Context, source *model.IncomeSource) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("%w: source", ErrNilParameter)
	}
	if err := source.Validate(); err != nil {
		return fmt.Errorf("invalid income source: %w", err)
	}

	if source.ID == "" {
		source.ID = newID()
	}

	var paydayMonth sql.NullInt64
	if source.PaydayMonth != nil {
		paydayMonth = sql.NullInt64{Int64: int64(*source.PaydayMonth), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO income_sources (id, name, amount, payday_day, payday_month, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		source.ID,
		source.Name,
		source.Amount.String(),
		source.PaydayDay,
		paydayMonth,
		source.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to save income source: %w", err)
	}

	return nil
}

// ListIncomeSources returns income sources, optionally only active
// ones, in payday order.
func (s *SQLiteStorage) ListIncomeSources(ctx context.Context, activeOnly bool) ([]model.IncomeSource, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, amount, payday_day, payday_month, is_active
		FROM income_sources`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY payday_day, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []model.IncomeSource
	for rows.Next() {
		var src model.IncomeSource
		var amount string
		var paydayMonth sql.NullInt64

		if err := rows.Scan(&src.ID, &src.Name, &amount, &src.PaydayDay,
			&paydayMonth, &src.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}

		if src.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt income amount %q: %w", amount, err)
		}
		if paydayMonth.Valid {
			month := int(paydayMonth.Int64)
			src.PaydayMonth = &month
		}

		sources = append(sources, src)
	}

	return sources, rows.Err()
}
