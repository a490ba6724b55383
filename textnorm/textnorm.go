// Package textnorm normalizes free text for heuristic matching: accent
// stripping, case folding and significant-token extraction.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases, strips accents and collapses whitespace so that
// "Verão Total" and "verao  total" compare equal.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(accentStripper, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// Tokens splits s into folded tokens longer than minLen runes, dropping
// everything that is not a letter or digit. Duplicates are removed, first
// occurrence wins.
func Tokens(s string, minLen int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len([]rune(t)) <= minLen {
			continue
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
