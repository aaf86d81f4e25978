package dedupe

import (
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDate = time.Date(2026, time.March, 15, 14, 30, 0, 0, time.Local)

func parsed(amount string, recipient, reference string, ts time.Time) model.ParsedTransaction {
	return model.ParsedTransaction{
		Amount:    decimal.RequireFromString(amount),
		Recipient: recipient,
		Reference: reference,
		Timestamp: ts,
	}
}

func stored(amount string, recipient, reference string, date time.Time) model.Expense {
	return model.Expense{
		Amount:    decimal.RequireFromString(amount),
		Recipient: recipient,
		Reference: reference,
		Date:      date,
	}
}

func TestDetectReferenceMatchIsAlwaysExact(t *testing.T) {
	d := NewDetector()

	// Amount and recipient disagree wildly; the shared reference code
	// still makes this an exact duplicate.
	txn := parsed("500.00", "JOHN DOE", "TAE4HW8QWE", baseDate)
	existing := []model.Expense{
		stored("9999.00", "SOMEONE ELSE", "TAE4HW8QWE", baseDate.AddDate(0, 0, -20)),
	}

	matches := d.Detect(txn, existing)
	require.Len(t, matches, 1)
	assert.Equal(t, ConfidenceExact, matches[0].Confidence)
	assert.Contains(t, matches[0].Reasons, "reference_match")
}

func TestDetectConfidenceBuckets(t *testing.T) {
	tests := []struct {
		name     string
		txn      model.ParsedTransaction
		expense  model.Expense
		want     Confidence
		excluded bool
	}{
		{
			name:    "amount recipient and day all match",
			txn:     parsed("500.00", "JOHN DOE", "", baseDate),
			expense: stored("500.00", "JOHN DOE", "", baseDate.Add(-2*time.Hour)),
			want:    ConfidenceExact,
		},
		{
			name:    "amount and recipient match with close date",
			txn:     parsed("500.00", "JOHN DOE", "", baseDate),
			expense: stored("500.50", "John Doe", "", baseDate.AddDate(0, 0, -2)),
			want:    ConfidenceLikely,
		},
		{
			name:    "amount alone",
			txn:     parsed("500.00", "JOHN DOE", "", baseDate),
			expense: stored("500.00", "DIFFERENT SHOP", "", baseDate.AddDate(0, 0, -30)),
			want:    ConfidencePossible,
		},
		{
			name:    "recipient alone with close date",
			txn:     parsed("500.00", "JOHN DOE", "", baseDate),
			expense: stored("2300.00", "JOHN DOE", "", baseDate.AddDate(0, 0, -1)),
			want:    ConfidencePossible,
		},
		{
			name:     "recipient alone with distant date is excluded",
			txn:      parsed("500.00", "JOHN DOE", "", baseDate),
			expense:  stored("2300.00", "JOHN DOE", "", baseDate.AddDate(0, 0, -60)),
			excluded: true,
		},
		{
			name:     "nothing in common is excluded",
			txn:      parsed("500.00", "JOHN DOE", "", baseDate),
			expense:  stored("80.00", "KPLC PREPAID", "", baseDate.AddDate(0, 0, -10)),
			excluded: true,
		},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := d.Detect(tt.txn, []model.Expense{tt.expense})
			if tt.excluded {
				assert.Empty(t, matches)
				return
			}
			require.Len(t, matches, 1)
			assert.Equal(t, tt.want, matches[0].Confidence)
		})
	}
}

func TestDetectAmountTolerance(t *testing.T) {
	d := NewDetector()
	txn := parsed("500.00", "", "", baseDate)

	within := d.Detect(txn, []model.Expense{stored("501.00", "X", "", baseDate.AddDate(0, 0, -30))})
	require.Len(t, within, 1)
	assert.Equal(t, ConfidencePossible, within[0].Confidence)

	outside := d.Detect(txn, []model.Expense{stored("501.01", "X", "", baseDate.AddDate(0, 0, -30))})
	assert.Empty(t, outside)
}

func TestDetectRanksByScore(t *testing.T) {
	d := NewDetector()
	txn := parsed("500.00", "JOHN DOE", "TAE4HW8QWE", baseDate)

	existing := []model.Expense{
		stored("500.00", "OTHER SHOP", "", baseDate.AddDate(0, 0, -20)),       // possible
		stored("500.00", "JOHN DOE", "", baseDate),                            // exact (amount+recipient+day)
		stored("123.00", "NOBODY", "TAE4HW8QWE", baseDate.AddDate(0, 0, -90)), // exact (reference)
	}

	matches := d.Detect(txn, existing)
	require.Len(t, matches, 3)

	// Full ranked list is preserved, strongest first.
	assert.Equal(t, "NOBODY", matches[0].Expense.Recipient)
	assert.Equal(t, ConfidenceExact, matches[0].Confidence)
	assert.Equal(t, ConfidenceExact, matches[1].Confidence)
	assert.Equal(t, ConfidencePossible, matches[2].Confidence)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}
