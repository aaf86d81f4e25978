package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies what an M-Pesa message describes.
type TransactionType string

const (
	// TypeSend is money sent to another person.
	TypeSend TransactionType = "send"
	// TypeReceive is money received from another person.
	TypeReceive TransactionType = "receive"
	// TypeBuy is a paybill/till payment or an airtime purchase.
	TypeBuy TransactionType = "buy"
	// TypeWithdraw is a cash withdrawal from an agent or ATM.
	TypeWithdraw TransactionType = "withdraw"
	// TypeDeposit is a cash deposit at an agent.
	TypeDeposit TransactionType = "deposit"
	// TypeUnknown is a message whose verb matched no known pattern.
	TypeUnknown TransactionType = "unknown"
)

// ParsedTransaction is the structured result of parsing one M-Pesa
// SMS or statement line. Amount is the only mandatory field; every
// other field is best-effort and zero-valued when the message did not
// contain it. A ParsedTransaction is never mutated after parsing.
type ParsedTransaction struct {
	Timestamp       time.Time
	Recipient       string
	Reference       string
	PhoneNumber     string
	Type            TransactionType
	Amount          decimal.Decimal
	TransactionCost *decimal.Decimal
	Balance         *decimal.Decimal
}

// HasRecipient reports whether a recipient or sender name was extracted.
func (t *ParsedTransaction) HasRecipient() bool {
	return t.Recipient != ""
}

// HasReference reports whether a provider transaction code was extracted.
func (t *ParsedTransaction) HasReference() bool {
	return t.Reference != ""
}
