// Package fields reconstructs the fixed marketing-brief schema from a
// briefing's body text and comment list.
//
// Label-anchored rules run over the body text first, then over comments;
// a field set by an earlier pass is locked and never overwritten by a
// lower-priority source. Output is byte-identical for identical input —
// the business side diffs extractions across runs.
package fields

import (
	"strings"

	"briefpipe/pdfx"
)

// Formats describes requested vs. already-existing asset formats.
type Formats struct {
	Requested []string `json:"requested"`
	Existing  []string `json:"existing"`
	Summary   string   `json:"summary,omitempty"`
}

// Fields is the structured marketing-brief schema. Empty string means the
// field was not found.
type Fields struct {
	LiveDate        string  `json:"liveDate,omitempty"`
	VF              string  `json:"vf,omitempty"`
	Headline        string  `json:"headline,omitempty"`
	Copy            string  `json:"copy,omitempty"`
	Description     string  `json:"description,omitempty"`
	CTA             string  `json:"cta,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	CopyColor       string  `json:"copyColor,omitempty"`
	Postcopy        string  `json:"postcopy,omitempty"`
	URN             string  `json:"urn,omitempty"`
	Allocadia       string  `json:"allocadia,omitempty"`
	PO              string  `json:"po,omitempty"`
	Formats         Formats `json:"formats"`
}

// Extract runs the full cascade: combined color line, label rules over text,
// label rules over comments, keyword scans, then color canonicalization.
func Extract(text string, comments []pdfx.Comment) Fields {
	var f Fields

	// The combined "background + copy" line must run before the individual
	// color rules so a single line naming both is split correctly.
	extractCombinedColors(&f, text)

	applyRules(&f, text)
	for _, c := range comments {
		extractCombinedColors(&f, c.Text)
		applyRules(&f, c.Text)
	}

	scanVF(&f, text, comments)
	scanFormats(&f, text, comments)

	f.BackgroundColor = canonicalizeIfSet(f.BackgroundColor)
	f.CopyColor = canonicalizeIfSet(f.CopyColor)

	if f.Formats.Requested == nil {
		f.Formats.Requested = []string{}
	}
	if f.Formats.Existing == nil {
		f.Formats.Existing = []string{}
	}
	return f
}

func canonicalizeIfSet(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return Canonicalize(raw)
}
