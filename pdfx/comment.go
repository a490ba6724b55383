package pdfx

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AnonymousAuthor is the sentinel for annotations with no usable author.
const AnonymousAuthor = "Anônimo"

// annotTypeLabels maps PDF annotation subtypes to the human labels the
// business side sees. Anything unmapped is a plain comment.
var annotTypeLabels = map[string]string{
	"Text":      "Comentário",
	"FreeText":  "Texto livre",
	"Highlight": "Destaque",
	"Underline": "Sublinhado",
	"Squiggly":  "Rabisco",
	"StrikeOut": "Tachado",
	"Ink":       "Desenho",
	"Stamp":     "Carimbo",
	"Caret":     "Inserção",
}

const defaultAnnotLabel = "Comentário"

func annotLabel(subtype string) string {
	if l, ok := annotTypeLabels[subtype]; ok {
		return l
	}
	return defaultAnnotLabel
}

// pdfDateRe matches the PDF-native date form D:YYYYMMDDHHmmSS with optional
// trailing timezone noise.
var pdfDateRe = regexp.MustCompile(`^D:(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?`)

// parseAnnotDate converts a PDF date string to ISO-8601 (UTC). The native
// D: pattern is tried first; anything else goes through lenient parsing.
// Returns "" when nothing parses — a missing date never fails the comment.
func parseAnnotDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if m := pdfDateRe.FindStringSubmatch(raw); m != nil {
		num := func(s string, def int) int {
			if s == "" {
				return def
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return def
			}
			return n
		}
		t := time.Date(num(m[1], 0), time.Month(num(m[2], 1)), num(m[3], 1),
			num(m[4], 0), num(m[5], 0), num(m[6], 0), 0, time.UTC)
		return t.Format(time.RFC3339)
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return ""
}

// Author detection patterns tried in order against the start of the comment
// text, used when the annotation carries no title/author field.
var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:por|by)\s*:\s*([\p{L} .]{2,40})`),
	regexp.MustCompile(`^\[([\p{L} .]{2,40})\]`),
	regexp.MustCompile(`^[-–]\s*([\p{L} .]{2,40})\s*$`),
	regexp.MustCompile(`^([\p{L} .]{2,40}):`),
}

// validAuthorRe accepts letters and spaces only, 2–30 chars.
var validAuthorRe = regexp.MustCompile(`^[\p{L}][\p{L} ]{0,28}[\p{L}]$`)

var titleCaser = cases.Title(language.BrazilianPortuguese)

// normalizeAuthor derives a display author: the explicit field wins, then the
// text-prefix patterns, then the anonymous sentinel. The result is
// title-cased and validated; anything failing validation resets to the
// sentinel rather than leaking noise into reports.
func normalizeAuthor(field, text string) string {
	candidate := strings.TrimSpace(field)
	if candidate == "" {
		for _, re := range authorPatterns {
			if m := re.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
				candidate = strings.TrimSpace(m[1])
				break
			}
		}
	}
	if candidate == "" {
		return AnonymousAuthor
	}
	candidate = titleCaser.String(strings.ToLower(candidate))
	candidate = strings.Join(strings.Fields(candidate), " ")
	if !validAuthorRe.MatchString(candidate) {
		return AnonymousAuthor
	}
	return candidate
}

// cleanCommentText normalizes whitespace and strips control characters from
// an annotation's contents.
func cleanCommentText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
