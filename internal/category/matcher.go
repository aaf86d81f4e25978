// Package category infers a spending category for a recipient from the
// user's expense history.
package category

import (
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
)

// Suggest returns the category most frequently assigned to the given
// recipient across the user's expense history, or "" when the
// recipient has no prior history. Frequency ties are broken by the
// most recently used category. This is a plain frequency count over
// the passed-in history, not a learning model.
func Suggest(recipient string, history []model.Expense) string {
	normalized := model.NormalizeRecipient(recipient)
	if normalized == "" {
		return ""
	}

	type usage struct {
		lastUsed time.Time
		count    int
	}
	byCategory := make(map[string]*usage)

	for _, expense := range history {
		if expense.Category == "" {
			continue
		}
		if model.NormalizeRecipient(expense.Recipient) != normalized {
			continue
		}

		u, ok := byCategory[expense.Category]
		if !ok {
			u = &usage{}
			byCategory[expense.Category] = u
		}
		u.count++
		if expense.Date.After(u.lastUsed) {
			u.lastUsed = expense.Date
		}
	}

	var best string
	var bestUsage usage
	for cat, u := range byCategory {
		switch {
		case u.count > bestUsage.count:
			best, bestUsage = cat, *u
		case u.count == bestUsage.count && u.lastUsed.After(bestUsage.lastUsed):
			best, bestUsage = cat, *u
		}
	}

	return best
}
