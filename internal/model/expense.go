package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a persisted transaction record. It is the durable form a
// ParsedTransaction takes once the user accepts it: a category, notes
// and (for paybill/till payments) the business numbers are added on top
// of the parsed fields.
type Expense struct {
	Date            time.Time
	CreatedAt       time.Time
	ID              string
	Recipient       string
	Category        string
	Reference       string
	PhoneNumber     string
	PaybillNumber   string
	TillNumber      string
	AccountNumber   string
	Notes           string
	Type            TransactionType
	Amount          decimal.Decimal
	TransactionCost *decimal.Decimal
	Balance         *decimal.Decimal
}

// FromParsed seeds an Expense from a parsed message. Category and notes
// are left for the caller to fill in.
func FromParsed(txn ParsedTransaction) Expense {
	return Expense{
		Date:            txn.Timestamp,
		Recipient:       txn.Recipient,
		Reference:       txn.Reference,
		PhoneNumber:     txn.PhoneNumber,
		Type:            txn.Type,
		Amount:          txn.Amount,
		TransactionCost: txn.TransactionCost,
		Balance:         txn.Balance,
	}
}

// GenerateHash creates a stable hash for storage-level duplicate
// suppression. Fuzzy duplicate detection is a separate concern; the
// hash only catches byte-identical re-imports.
func (e *Expense) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		e.Date.Format("2006-01-02"),
		e.Amount.StringFixed(2),
		e.Recipient,
		e.Reference)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
