// Package mpesa parses M-Pesa SMS and statement text into structured
// transaction records.
package mpesa

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/model"
)

// ParseError reports a message line from which no transaction amount
// could be extracted. Every other field is optional; a missing amount
// is the only hard failure.
type ParseError struct {
	Err  error
	Line string
}

func (e *ParseError) Error() string {
	line := e.Line
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	return fmt.Sprintf("failed to parse message %q: %v", line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// typePattern classifies a message by its verb phrase. Patterns are
// evaluated in priority order and the first match wins, so a contrived
// message containing both "sent to" and "received from" classifies
// deterministically.
type typePattern struct {
	regex    *regexp.Regexp
	txnType  model.TransactionType
	priority int
}

// Parser converts raw provider text into model.ParsedTransaction
// values. It is stateless and safe for concurrent use.
type Parser struct {
	now      func() time.Time
	patterns []typePattern
}

// NewParser creates a parser with the standard M-Pesa verb patterns
// compiled.
func NewParser() *Parser {
	specs := []struct {
		regex    string
		txnType  model.TransactionType
		priority int
	}{
		{`(?i)\bsent\s+to\b`, model.TypeSend, 100},
		{`(?i)\b(?:you\s+have\s+)?received\b`, model.TypeReceive, 90},
		{`(?i)\b(?:paid\s+to|bought?)\b`, model.TypeBuy, 80},
		{`(?i)\bwithdraw(?:n)?\b`, model.TypeWithdraw, 70},
		{`(?i)\bdeposit(?:ed)?\b`, model.TypeDeposit, 60},
	}

	patterns := make([]typePattern, 0, len(specs))
	for _, s := range specs {
		patterns = append(patterns, typePattern{
			regex:    regexp.MustCompile(s.regex),
			txnType:  s.txnType,
			priority: s.priority,
		})
	}

	// Sort by priority (highest first).
	for i := 0; i < len(patterns)-1; i++ {
		for j := i + 1; j < len(patterns); j++ {
			if patterns[j].priority > patterns[i].priority {
				patterns[i], patterns[j] = patterns[j], patterns[i]
			}
		}
	}

	return &Parser{
		now:      time.Now,
		patterns: patterns,
	}
}

// Parse extracts a structured transaction from one line of provider
// text. It returns a *ParseError when no monetary amount can be found;
// all other fields degrade to their zero values when absent. The
// timestamp defaults to the current time when the message carries no
// date.
func (p *Parser) Parse(line string) (model.ParsedTransaction, error) {
	line = strings.TrimSpace(line)

	amount, ok := extractAmount(line)
	if !ok {
		return model.ParsedTransaction{}, &ParseError{Line: line, Err: common.ErrNoAmount}
	}

	txn := model.ParsedTransaction{
		Amount: amount,
		Type:   p.classify(line),
	}

	if recipient, found := extractRecipient(line, txn.Type); found {
		txn.Recipient = recipient
	}
	if phone, found := extractPhoneNumber(line); found {
		txn.PhoneNumber = phone
	}
	if ref, found := extractReference(line); found {
		txn.Reference = ref
	}
	if ts, found := extractTimestamp(line); found {
		txn.Timestamp = ts
	} else {
		txn.Timestamp = p.now()
	}
	if balance, found := extractBalance(line); found {
		txn.Balance = &balance
	}
	if cost, found := extractTransactionCost(line); found {
		txn.TransactionCost = &cost
	}

	return txn, nil
}

// classify returns the transaction type for a message line, or
// TypeUnknown when no verb pattern matches. Unknown is not a parse
// failure.
func (p *Parser) classify(line string) model.TransactionType {
	for _, pat := range p.patterns {
		if pat.regex.MatchString(line) {
			return pat.txnType
		}
	}
	return model.TypeUnknown
}
