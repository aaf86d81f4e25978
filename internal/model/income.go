package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeSource is a salary or other expected inflow. PaydayMonth is
// nil for sources that recur every month; when set the source only
// pays out in that calendar month (a yearly bonus, say).
type IncomeSource struct {
	ID          string
	Name        string
	Amount      decimal.Decimal
	PaydayDay   int
	PaydayMonth *int
	IsActive    bool
}

// Validate checks the payday fields are real calendar values.
func (s *IncomeSource) Validate() error {
	if !s.Amount.IsPositive() {
		return fmt.Errorf("income amount must be positive")
	}
	if s.PaydayDay < 1 || s.PaydayDay > 31 {
		return fmt.Errorf("payday day must be between 1 and 31")
	}
	if s.PaydayMonth != nil && (*s.PaydayMonth < 1 || *s.PaydayMonth > 12) {
		return fmt.Errorf("payday month must be between 1 and 12")
	}
	return nil
}
