package model

import (
	"regexp"
	"strings"
)

// Phone-number-length digit runs embedded in recipient names (the
// provider appends the counterparty's number to the name).
var phoneDigitsRe = regexp.MustCompile(`\+?[0-9]{9,12}`)

// NormalizeRecipient canonicalizes a recipient name for comparison:
// lowercase, whitespace removed, embedded phone numbers stripped.
func NormalizeRecipient(name string) string {
	name = strings.ToLower(name)
	name = phoneDigitsRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), "")
}

// NormalizeNumber canonicalizes a paybill, till or account number for
// comparison: whitespace removed, lowercased for alphanumeric account
// references.
func NormalizeNumber(number string) string {
	return strings.ToLower(strings.Join(strings.Fields(number), ""))
}
