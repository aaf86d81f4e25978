package mpesa

import (
	"errors"
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSendMessage(t *testing.T) {
	p := NewParser()

	txn, err := p.Parse("TAE4HW8QWE Confirmed. Ksh500.00 sent to JOHN DOE 0712345678 on 21/11/25 at 2:30 PM. New M-PESA balance is Ksh1,200.00. Transaction cost, Ksh0.00.")
	require.NoError(t, err)

	assert.Equal(t, model.TypeSend, txn.Type)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("500.00")), "amount = %s", txn.Amount)
	assert.Equal(t, "JOHN DOE", txn.Recipient, "phone number must be excluded from the recipient")
	assert.Equal(t, "0712345678", txn.PhoneNumber)
	assert.Equal(t, "TAE4HW8QWE", txn.Reference)

	expected := time.Date(2025, time.November, 21, 14, 30, 0, 0, time.Local)
	assert.Equal(t, expected, txn.Timestamp)

	require.NotNil(t, txn.Balance)
	assert.True(t, txn.Balance.Equal(decimal.RequireFromString("1200.00")), "balance = %s", txn.Balance)
	require.NotNil(t, txn.TransactionCost)
	assert.True(t, txn.TransactionCost.IsZero())
}

func TestParseTypeClassification(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantType model.TransactionType
	}{
		{
			name:     "received from sender",
			message:  "TAE5XK2QPL Confirmed. You have received Ksh2,500.00 from MARY WANJIKU 0722000111 on 1/3/26 at 9:15 AM. New M-PESA balance is Ksh3,700.00.",
			wantType: model.TypeReceive,
		},
		{
			name:     "paid to business",
			message:  "TAE6RT1MNO Confirmed. Ksh300.00 paid to NAIVAS LTD. on 2/3/26 at 6:05 PM. New M-PESA balance is Ksh3,400.00. Transaction cost, Ksh0.00.",
			wantType: model.TypeBuy,
		},
		{
			name:     "agent withdrawal",
			message:  "TAE7PL9XYZ Confirmed. on 5/3/26 at 10:00 AM Withdraw Ksh1,000.00 from 123456 - AGG AGENCIES LTD. New M-PESA balance is Ksh2,400.00. Transaction cost, Ksh29.00.",
			wantType: model.TypeWithdraw,
		},
		{
			name:     "agent deposit",
			message:  "TAE8QW3ABC Confirmed. You have deposited Ksh5,000.00 on 6/3/26 at 11:45 AM. New M-PESA balance is Ksh7,400.00.",
			wantType: model.TypeDeposit,
		},
		{
			name:     "unrecognized verb defaults to unknown without failing",
			message:  "Confirmed. Ksh250.00 reversal completed on 7/3/26 at 1:00 PM.",
			wantType: model.TypeUnknown,
		},
		{
			name:     "adversarial message with both verbs uses priority order",
			message:  "Confirmed. Ksh100.00 sent to PETER received from JOHN.",
			wantType: model.TypeSend,
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := p.Parse(tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, txn.Type)
		})
	}
}

func TestParsePrefersFirstAmount(t *testing.T) {
	p := NewParser()

	// The balance figure is numerically larger but appears later; the
	// transaction amount is always the first monetary mention.
	txn, err := p.Parse("Confirmed. Ksh500.00 sent to JANE MUTHONI. New M-PESA balance is Ksh12,000.00.")
	require.NoError(t, err)

	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("500.00")), "amount = %s", txn.Amount)
}

func TestParseAmountRoundTrip(t *testing.T) {
	p := NewParser()

	txn, err := p.Parse("Confirmed. Ksh12,345.67 sent to SAMUEL KIPROTICH.")
	require.NoError(t, err)

	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("12345.67")),
		"comma-separated amount must parse exactly, got %s", txn.Amount)
}

func TestParseNoAmountFails(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("your account has been updated, thank you")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, errors.Is(err, common.ErrNoAmount))
}

func TestParseTimestampDefaultsToNow(t *testing.T) {
	p := NewParser()
	fixed := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.Local)
	p.now = func() time.Time { return fixed }

	txn, err := p.Parse("Confirmed. Ksh150.00 sent to GRACE AKINYI.")
	require.NoError(t, err)

	assert.Equal(t, fixed, txn.Timestamp)
}

func TestParseRecipientWithEmbeddedDigits(t *testing.T) {
	p := NewParser()

	txn, err := p.Parse("TBA1CD2EFG Confirmed. Ksh750.50 sent to OTIENO 254701234567 on 3/4/26 at 7:20 PM.")
	require.NoError(t, err)

	assert.Equal(t, "OTIENO", txn.Recipient)
	assert.Equal(t, "254701234567", txn.PhoneNumber)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("750.50")))
}

func TestParseOptionalFieldsAbsent(t *testing.T) {
	p := NewParser()

	txn, err := p.Parse("Confirmed. Ksh80 bought airtime.")
	require.NoError(t, err)

	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, model.TypeBuy, txn.Type)
	assert.False(t, txn.HasRecipient())
	assert.False(t, txn.HasReference())
	assert.Empty(t, txn.PhoneNumber)
	assert.Nil(t, txn.Balance)
	assert.Nil(t, txn.TransactionCost)
}
