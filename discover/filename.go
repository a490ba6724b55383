package discover

import (
	"regexp"
	"strings"
)

// Listing labels are noisy: decorations, sizes, dates and the real file
// name all share one text blob. The cascade below pulls the name out,
// most specific pattern first.
var (
	// DSID-prefixed briefing names, e.g. "5372048_briefing_v2.pdf".
	dsidNameRe = regexp.MustCompile(`(?i)\b(\d{7}[\w\-. ]*?\.pdf)\b`)

	// Any pdf-looking token. No spaces here: names with spaces reach the
	// line-scan fallback instead, so the match cannot bleed across words.
	genericNameRe = regexp.MustCompile(`(?i)\b([\w\-.]+\.pdf)\b`)

	illegalNameRe = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// ExtractFileName pulls a clean file name out of a noisy listing label.
// Returns "" when nothing usable is found.
func ExtractFileName(label string) string {
	if m := dsidNameRe.FindStringSubmatch(label); m != nil {
		return sanitizeName(m[1])
	}
	if m := genericNameRe.FindStringSubmatch(label); m != nil {
		return sanitizeName(m[1])
	}
	// Line-scan fallback: first line that still looks like a document name
	// after sanitizing.
	for _, line := range strings.Split(label, "\n") {
		name := sanitizeName(line)
		if name == "" {
			continue
		}
		if strings.ContainsRune(name, '.') && len(name) <= 120 {
			return name
		}
	}
	return ""
}

// sanitizeName strips path separators and characters illegal in file names,
// then collapses runs of whitespace.
func sanitizeName(s string) string {
	s = illegalNameRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
