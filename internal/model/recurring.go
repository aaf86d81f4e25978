package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecurringTransaction is a user-defined template for a bill that
// repeats: rent to a paybill, a till payment, or a plain recipient
// plus amount. Paybill (with optional account) and till are mutually
// exclusive identification paths.
type RecurringTransaction struct {
	ID            string
	Name          string
	Recipient     string
	PaybillNumber string
	TillNumber    string
	AccountNumber string
	Amount        decimal.Decimal
	IsActive      bool
}

// Validate rejects templates that could never match anything.
func (r *RecurringTransaction) Validate() error {
	if r.PaybillNumber != "" && r.TillNumber != "" {
		return fmt.Errorf("a recurring transaction is either paybill-based or till-based, not both")
	}
	if r.AccountNumber != "" && r.PaybillNumber == "" {
		return fmt.Errorf("account number requires a paybill number")
	}
	if r.Recipient == "" && r.PaybillNumber == "" && r.TillNumber == "" {
		return fmt.Errorf("recurring transaction needs a recipient, paybill or till")
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("recurring amount must be positive")
	}
	return nil
}
