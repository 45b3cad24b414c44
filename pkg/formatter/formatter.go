package formatter

import "unicode/utf8"

// Truncate cuts s down to at most max bytes without splitting a multi-byte
// rune. The cutoff is a tunable limit, not a semantic boundary.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
