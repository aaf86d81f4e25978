// Package dedupe scores a newly parsed transaction against stored
// expenses to surface likely duplicates before they are saved twice.
package dedupe

import (
	"sort"
	"strings"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// Confidence buckets, highest to lowest. Candidates below the possible
// threshold are excluded from results entirely.
type Confidence string

const (
	// ConfidenceExact means reference codes match, or amount,
	// recipient and calendar day all agree.
	ConfidenceExact Confidence = "exact"
	// ConfidenceLikely means amount and recipient match with a close
	// date.
	ConfidenceLikely Confidence = "likely"
	// ConfidencePossible means a single strong signal matched.
	ConfidencePossible Confidence = "possible"
)

// Weights is the scoring table for the independent duplicate signals.
// Kept as a struct so thresholds are tunable and testable in isolation.
type Weights struct {
	Reference int
	Amount    int
	Recipient int
	SameDay   int
	NearDay   int
}

// DefaultWeights reflect the relative strength of each signal; an
// equal reference code is treated as near-certain on its own.
var DefaultWeights = Weights{
	Reference: 100,
	Amount:    40,
	Recipient: 30,
	SameDay:   20,
	NearDay:   10,
}

const (
	// amountTolerance is how far apart two amounts may be, in currency
	// units, and still count as the same figure.
	amountTolerance = 1
	// dateToleranceDays is the window for "date close" proximity.
	dateToleranceDays = 3
)

// Match is one ranked duplicate candidate.
type Match struct {
	Expense    model.Expense
	Confidence Confidence
	Reasons    []string
	Score      int
}

// Detector scores candidate duplicates. It is stateless beyond its
// weight table.
type Detector struct {
	weights Weights
}

// NewDetector creates a detector with the default signal weights.
func NewDetector() *Detector {
	return &Detector{weights: DefaultWeights}
}

// Detect returns all stored expenses that plausibly duplicate the
// parsed transaction, ranked by descending confidence and score. The
// caller typically presents only the top candidate but the full list
// is preserved so the UI can show how many more matched.
func (d *Detector) Detect(txn model.ParsedTransaction, existing []model.Expense) []Match {
	matches := make([]Match, 0)

	for _, expense := range existing {
		if m, ok := d.score(txn, expense); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func (d *Detector) score(txn model.ParsedTransaction, expense model.Expense) (Match, bool) {
	match := Match{Expense: expense}

	referenceMatch := txn.Reference != "" && expense.Reference != "" &&
		strings.EqualFold(txn.Reference, expense.Reference)
	if referenceMatch {
		match.Score += d.weights.Reference
		match.Reasons = append(match.Reasons, "reference_match")
	}

	amountMatch := txn.Amount.Sub(expense.Amount).Abs().
		LessThanOrEqual(decimal.NewFromInt(amountTolerance))
	if amountMatch {
		match.Score += d.weights.Amount
		match.Reasons = append(match.Reasons, "amount_match")
	}

	recipientMatch := recipientsOverlap(txn.Recipient, expense.Recipient)
	if recipientMatch {
		match.Score += d.weights.Recipient
		match.Reasons = append(match.Reasons, "recipient_match")
	}

	sameDay := sameCalendarDay(txn, expense)
	daysApart := daysBetween(txn, expense)
	dateClose := daysApart <= dateToleranceDays
	switch {
	case sameDay:
		match.Score += d.weights.SameDay
		match.Reasons = append(match.Reasons, "same_day")
	case dateClose:
		match.Score += d.weights.NearDay
		match.Reasons = append(match.Reasons, "date_close")
	}

	switch {
	case referenceMatch:
		match.Confidence = ConfidenceExact
	case amountMatch && recipientMatch && sameDay:
		match.Confidence = ConfidenceExact
	case amountMatch && recipientMatch && dateClose:
		match.Confidence = ConfidenceLikely
	case amountMatch:
		match.Confidence = ConfidencePossible
	case recipientMatch && dateClose:
		match.Confidence = ConfidencePossible
	default:
		// Below threshold: not a candidate at all.
		return Match{}, false
	}

	return match, true
}

// recipientsOverlap does a case-insensitive containment check in
// either direction on the normalized names.
func recipientsOverlap(a, b string) bool {
	na, nb := model.NormalizeRecipient(a), model.NormalizeRecipient(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func sameCalendarDay(txn model.ParsedTransaction, expense model.Expense) bool {
	ty, tm, td := txn.Timestamp.Date()
	ey, em, ed := expense.Date.Date()
	return ty == ey && tm == em && td == ed
}

func daysBetween(txn model.ParsedTransaction, expense model.Expense) int {
	diff := txn.Timestamp.Sub(expense.Date)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
