package fields

import (
	"regexp"
	"strings"
)

// rule is one label-anchored extraction: the first submatch becomes the
// field value if the field is still unset. Rules are a declarative, ordered
// table so individual patterns can be tested and reordered in isolation.
type rule struct {
	name string
	re   *regexp.Regexp
	get  func(f *Fields) *string
}

// valueTail captures a line remainder after a label.
const valueTail = `[:\-–]\s*(.+?)\s*$`

var rules = []rule{
	{
		name: "liveDate",
		re:   regexp.MustCompile(`(?im)^\s*(?:live\s*date|data\s+(?:de\s+)?live|go[\s-]?live)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.LiveDate },
	},
	{
		name: "vf",
		re:   regexp.MustCompile(`(?im)^\s*(?:vf|visual\s*framework)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.VF },
	},
	{
		name: "headline",
		re:   regexp.MustCompile(`(?im)^\s*(?:headline|t[ií]tulo)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.Headline },
	},
	{
		name: "copy",
		re:   regexp.MustCompile(`(?im)^\s*(?:copy|texto\s+principal)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.Copy },
	},
	{
		name: "description",
		re:   regexp.MustCompile(`(?im)^\s*(?:description|descri[cç][aã]o)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.Description },
	},
	{
		name: "cta",
		re:   regexp.MustCompile(`(?im)^\s*(?:cta|call\s*to\s*action|bot[aã]o)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.CTA },
	},
	{
		name: "backgroundColor",
		re:   regexp.MustCompile(`(?im)^\s*(?:background(?:\s*colou?r)?|fundo|cor\s+d[eo]\s+fundo)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.BackgroundColor },
	},
	{
		name: "copyColor",
		re:   regexp.MustCompile(`(?im)^\s*(?:copy\s*colou?r|cor\s+d[ao]\s+(?:copy|texto))\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.CopyColor },
	},
	{
		name: "postcopy",
		re:   regexp.MustCompile(`(?im)^\s*(?:post[\s-]?copy|p[oó]s[\s-]?copy)\s*` + valueTail),
		get:  func(f *Fields) *string { return &f.Postcopy },
	},
	{
		name: "urn",
		re:   regexp.MustCompile(`(?im)^\s*urn\s*[:\-–]?\s*([A-Z0-9][A-Z0-9\-_/]{3,})\s*$`),
		get:  func(f *Fields) *string { return &f.URN },
	},
	{
		name: "allocadia",
		re:   regexp.MustCompile(`(?im)\ballocadia\s*[:\-–#]?\s*([A-Z0-9][A-Z0-9\-]{2,})`),
		get:  func(f *Fields) *string { return &f.Allocadia },
	},
	{
		name: "po",
		re:   regexp.MustCompile(`(?im)\b(?:po|purchase\s*order)\s*[:\-–#]\s*([A-Z0-9][A-Z0-9\-]{2,})`),
		get:  func(f *Fields) *string { return &f.PO },
	},
}

// applyRules runs the ordered rule table against one text source. A field
// already set by a higher-priority source stays locked.
func applyRules(f *Fields, text string) {
	for _, r := range rules {
		slot := r.get(f)
		if *slot != "" {
			continue
		}
		if m := r.re.FindStringSubmatch(text); m != nil {
			*slot = strings.TrimSpace(m[1])
		}
	}
}

// combinedColorRe matches a single line naming both colors, e.g.
// "Cores: fundo Cosmos e copy Snow" or "Background: Cosmos / Copy: Snow".
var combinedColorRe = regexp.MustCompile(
	`(?im)^\s*(?:cores?\s*[:\-–]\s*)?(?:background|fundo)\s*[:\-–]?\s+(.+?)\s*(?:[,;/+&]|\be\b|\bcom\b)\s*(?:copy|texto)(?:\s*colou?r)?\s*[:\-–]?\s+(.+?)\s*$`)

// extractCombinedColors splits a combined background+copy line into both
// color fields. Runs before the individual color rules.
func extractCombinedColors(f *Fields, text string) {
	if f.BackgroundColor != "" && f.CopyColor != "" {
		return
	}
	m := combinedColorRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if f.BackgroundColor == "" {
		f.BackgroundColor = strings.TrimSpace(m[1])
	}
	if f.CopyColor == "" {
		f.CopyColor = strings.TrimSpace(m[2])
	}
}
