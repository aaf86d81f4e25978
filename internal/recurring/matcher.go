// Package recurring matches transactions against user-defined
// recurring bill templates using a weighted point score.
package recurring

import (
	"strings"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// Signal weights. The score is an ad-hoc ranking figure, not a
// probability; the named constants keep the weights tunable and
// testable in isolation.
const (
	ScorePaybill          = 50
	ScoreAccount          = 40
	ScoreTill             = 70
	ScoreRecipientExact   = 30
	ScoreRecipientPartial = 20
	ScoreAmountTight      = 20
	ScoreAmountLoose      = 10

	// MinScore is the qualifying threshold; candidates below it are
	// ignored entirely.
	MinScore = 50
	// AutoLinkScore is the threshold above which a match is linked
	// without asking the user.
	AutoLinkScore = 80
)

// Amount tolerance bands. These are the canonical tolerances for
// amount proximity; only the better of the two bands scores.
var (
	AmountToleranceTight = decimal.RequireFromString("0.05")
	AmountToleranceLoose = decimal.RequireFromString("0.10")
)

// Action is what the caller should do with a match.
type Action string

const (
	// ActionAutoLink links the transaction to the template without
	// user confirmation.
	ActionAutoLink Action = "auto-link"
	// ActionSuggest presents the template to the user to confirm.
	ActionSuggest Action = "suggest"
	// ActionIgnore means no template cleared the threshold.
	ActionIgnore Action = "ignore"
)

// Confidence labels a qualifying match for display.
type Confidence string

const (
	// ConfidenceHigh accompanies auto-link scores.
	ConfidenceHigh Confidence = "high"
	// ConfidenceLow accompanies suggest-range scores.
	ConfidenceLow Confidence = "low"
)

// Match is the winning template for a transaction.
type Match struct {
	Rule       model.RecurringTransaction
	Confidence Confidence
	Action     Action
	Index      int
	Score      int
}

// Best scores the transaction against every active template and
// returns the highest-scoring one at or above MinScore, or nil when
// nothing qualifies. Ties go to the first template in input order.
func Best(txn model.Expense, rules []model.RecurringTransaction) *Match {
	var best *Match

	for i, rule := range rules {
		if !rule.IsActive {
			continue
		}

		score := Score(txn, rule)
		if score < MinScore {
			continue
		}
		if best != nil && score <= best.Score {
			continue
		}

		m := Match{Rule: rule, Index: i, Score: score}
		if score >= AutoLinkScore {
			m.Confidence = ConfidenceHigh
			m.Action = ActionAutoLink
		} else {
			m.Confidence = ConfidenceLow
			m.Action = ActionSuggest
		}
		best = &m
	}

	return best
}

// Score computes the weighted points for one transaction/template
// pair. Paybill+account and till are mutually exclusive
// identification paths; a transaction is one or the other.
func Score(txn model.Expense, rule model.RecurringTransaction) int {
	score := 0

	switch {
	case rule.PaybillNumber != "" && txn.PaybillNumber != "":
		if model.NormalizeNumber(txn.PaybillNumber) == model.NormalizeNumber(rule.PaybillNumber) {
			score += ScorePaybill
			if rule.AccountNumber != "" && txn.AccountNumber != "" &&
				model.NormalizeNumber(txn.AccountNumber) == model.NormalizeNumber(rule.AccountNumber) {
				score += ScoreAccount
			}
		}
	case rule.TillNumber != "" && txn.TillNumber != "":
		if model.NormalizeNumber(txn.TillNumber) == model.NormalizeNumber(rule.TillNumber) {
			score += ScoreTill
		}
	}

	score += recipientScore(txn.Recipient, rule.Recipient)
	score += amountScore(txn.Amount, rule.Amount)

	return score
}

func recipientScore(txnRecipient, ruleRecipient string) int {
	a := model.NormalizeRecipient(txnRecipient)
	b := model.NormalizeRecipient(ruleRecipient)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return ScoreRecipientExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return ScoreRecipientPartial
	}
	return 0
}

// amountScore awards the better of the two tolerance bands, never
// both.
func amountScore(txnAmount, ruleAmount decimal.Decimal) int {
	if !ruleAmount.IsPositive() {
		return 0
	}

	deviation := txnAmount.Sub(ruleAmount).Abs().Div(ruleAmount)
	switch {
	case deviation.LessThanOrEqual(AmountToleranceTight):
		return ScoreAmountTight
	case deviation.LessThanOrEqual(AmountToleranceLoose):
		return ScoreAmountLoose
	}
	return 0
}
