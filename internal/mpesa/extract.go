package mpesa

import (
	"regexp"
	"strings"
	"time"

	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/shopspring/decimal"
)

// Field extractors. Each is an independent rule over the raw line that
// reports whether it found its field, so a partially recognizable
// message still yields a usable transaction.
var (
	// The first currency-marked figure in a message is the transaction
	// amount; balance and fee figures always appear later.
	amountRe = regexp.MustCompile(`(?i)\b(?:ksh?s?|kes)\.?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

	recipientToRe   = regexp.MustCompile(`(?i)\bto\s+([^.,]+?)(?:\s+on\s|[.,]|$)`)
	recipientFromRe = regexp.MustCompile(`(?i)\bfrom\s+([^.,]+?)(?:\s+on\s|[.,]|$)`)

	// Kenyan mobile numbers: 07xx/01xx local form or 2547xx/2541xx
	// international form.
	phoneRe = regexp.MustCompile(`(?:\+254|\b254|\b0)[17][0-9]{8}\b`)

	// Provider confirmation codes are a 10-character alphanumeric
	// token at the start of the message.
	referenceRe = regexp.MustCompile(`^([A-Z][A-Z0-9]{9})\b`)

	dateRe = regexp.MustCompile(`(?i)\bon\s+([0-9]{1,2})/([0-9]{1,2})/([0-9]{2,4})`)
	timeRe = regexp.MustCompile(`(?i)\bat\s+([0-9]{1,2}):([0-9]{2})\s*([AP]\.?M\.?)?`)

	balanceRe = regexp.MustCompile(`(?i)balance\s+is\s+(?:ksh?s?|kes)\.?\s*([0-9.,]+)`)
	costRe    = regexp.MustCompile(`(?i)transaction\s+cost,?\s*(?:ksh?s?|kes)\.?\s*([0-9.,]+)`)
)

// parseMoney sanitizes and parses a monetary token. Thousands
// separators are stripped, trailing punctuation is trimmed, and the
// result is truncated to 2 decimal places. A token that still fails to
// parse, or parses negative, is reported as absent rather than letting
// a garbage value flow into downstream sums.
func parseMoney(token string) (decimal.Decimal, bool) {
	token = strings.ReplaceAll(token, ",", "")
	token = strings.TrimRight(token, ".,;:")
	if token == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(token)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount.Truncate(2), true
}

func extractAmount(line string) (decimal.Decimal, bool) {
	m := amountRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}
	return parseMoney(m[1])
}

// extractRecipient pulls the name token sequence adjacent to the
// type-specific preposition. Senders introduce themselves with "from",
// recipients with "to". Embedded phone numbers are excluded from the
// name.
func extractRecipient(line string, txnType model.TransactionType) (string, bool) {
	var res []*regexp.Regexp
	switch txnType {
	case model.TypeReceive, model.TypeWithdraw:
		res = []*regexp.Regexp{recipientFromRe}
	case model.TypeSend, model.TypeBuy, model.TypeDeposit:
		res = []*regexp.Regexp{recipientToRe}
	default:
		res = []*regexp.Regexp{recipientToRe, recipientFromRe}
	}

	for _, re := range res {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := phoneRe.ReplaceAllString(m[1], "")
		name = strings.Join(strings.Fields(name), " ")
		name = strings.Trim(name, "- ")
		if name != "" {
			return name, true
		}
	}
	return "", false
}

func extractPhoneNumber(line string) (string, bool) {
	m := phoneRe.FindString(line)
	return m, m != ""
}

func extractReference(line string) (string, bool) {
	m := referenceRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractTimestamp combines the message's date and time tokens into a
// single local timestamp. A date without a time is taken as midnight.
// Messages with no date at all report not-found and the caller
// defaults to now.
func extractTimestamp(line string) (time.Time, bool) {
	d := dateRe.FindStringSubmatch(line)
	if d == nil {
		return time.Time{}, false
	}

	day := atoi(d[1])
	month := atoi(d[2])
	year := atoi(d[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if t := timeRe.FindStringSubmatch(line); t != nil {
		hour = atoi(t[1])
		minute = atoi(t[2])
		meridiem := strings.ToUpper(strings.ReplaceAll(t[3], ".", ""))
		switch meridiem {
		case "PM":
			if hour < 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), true
}

func extractBalance(line string) (decimal.Decimal, bool) {
	m := balanceRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}
	return parseMoney(m[1])
}

func extractTransactionCost(line string) (decimal.Decimal, bool) {
	m := costRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}
	return parseMoney(m[1])
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
