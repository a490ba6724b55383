package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"briefpipe/browse"
)

// staticSelectors covers the markup goquery can reach once the live
// selectors all came up empty. These candidates carry no Node handle, so
// the download stage falls back to its per-file path for them.
var staticSelectors = []string{
	"a", "span", "div[title]",
}

// scanStatic is the last-resort discovery pass over a frozen HTML snapshot
// of the frame. Any parse failure yields an empty list.
func (e *Engine) scanStatic(frame browse.Frame, projectName string) []Candidate {
	html, err := frame.HTML()
	if err != nil || strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Debug("discover: static parse failed", "error", err)
		return nil
	}
	var cands []Candidate
	for _, sel := range staticSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			label := strings.TrimSpace(s.AttrOr("aria-label", ""))
			if label == "" {
				label = strings.TrimSpace(s.AttrOr("title", ""))
			}
			if label == "" {
				label = strings.TrimSpace(s.Text())
			}
			if label == "" || isFolderLabel(label) {
				return
			}
			name := ExtractFileName(label)
			if name == "" {
				return
			}
			cands = append(cands, Candidate{
				FileName:       name,
				OriginalLabel:  label,
				IsBriefingHint: isBriefingName(name, projectName),
			})
		})
		if len(cands) > 0 {
			break
		}
	}
	if len(cands) > 0 {
		e.logger.Debug("discover: static fallback used", "candidates", len(cands))
	}
	return cands
}
