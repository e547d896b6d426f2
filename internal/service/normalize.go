package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord returns the lookup key for a Spanish word or phrase:
// trimmed, NFC-composed, lowercased, with internal whitespace collapsed to single spaces.
func NormalizeWord(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
