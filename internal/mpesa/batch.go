package mpesa

import (
	"log/slog"
	"strings"

	"github.com/pesatrack/pesatrack/internal/model"
)

// LineResult is the outcome of parsing one line of a multi-line paste.
// Transaction is only meaningful when Err is nil.
type LineResult struct {
	Err         error
	Line        string
	Transaction model.ParsedTransaction
	Index       int
}

// OK reports whether the line parsed successfully.
func (r LineResult) OK() bool {
	return r.Err == nil
}

// ParseBatch parses multiple message lines, isolating failures: one
// unparseable line is recorded as a failed result and must not abort
// its siblings. Results preserve input order. Blank lines are skipped
// entirely.
func (p *Parser) ParseBatch(lines []string) []LineResult {
	results := make([]LineResult, 0, len(lines))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		result := LineResult{Index: i, Line: line}
		txn, err := p.Parse(line)
		if err != nil {
			result.Err = err
			slog.Debug("Skipping unparseable message line", "index", i, "error", err)
		} else {
			result.Transaction = txn
		}
		results = append(results, result)
	}

	return results
}

// Successes filters a batch down to the parsed transactions, in order.
func Successes(results []LineResult) []model.ParsedTransaction {
	txns := make([]model.ParsedTransaction, 0, len(results))
	for _, r := range results {
		if r.OK() {
			txns = append(txns, r.Transaction)
		}
	}
	return txns
}

// Failures filters a batch down to the failed lines, in order.
func Failures(results []LineResult) []LineResult {
	failed := make([]LineResult, 0)
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
