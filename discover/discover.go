// Package discover scans a project's document listing for downloadable
// files and picks out the ones that look like marketing briefings.
package discover

import (
	"log/slog"
	"strings"

	"briefpipe/browse"
	"briefpipe/textnorm"
)

// Candidate is one discoverable document in a project's folder. Node is the
// live DOM handle used later to trigger the download; it is nil for
// candidates found through the static-HTML fallback.
type Candidate struct {
	FileName       string
	OriginalLabel  string
	IsBriefingHint bool
	Node           browse.Node
}

// fileSelectors is tried in order; the first selector yielding any visible
// match wins and the rest are skipped.
var fileSelectors = []string{
	`[data-testid="document-item"]`,
	`[role="row"] [role="gridcell"] a`,
	`a[href*="/document/"]`,
	`div.document-item`,
	`li.doc-list-item`,
	`[aria-label*=".pdf" i]`,
}

// nameAttrs is the per-element name cascade, ahead of raw text content.
var nameAttrs = []string{"aria-label", "title", "data-name"}

// folderWords in a label mean the element is a folder row, not a file.
var folderWords = []string{"folder", "pasta", "diretorio"}

// minTokenLen is the significant-token cutoff for name overlap; tokens of
// this many runes or fewer carry no signal.
const minTokenLen = 3

// overlapThreshold is the share of project-name tokens that must appear in
// a file name for it to count as briefing-like.
const overlapThreshold = 0.5

// Engine runs the discovery scan. The zero value is not usable; construct
// with New.
type Engine struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Scan returns a deduplicated, briefing-first list of candidates found in
// the frame. Per-element failures are skipped; an empty result is a valid
// outcome, never an error.
func (e *Engine) Scan(frame browse.Frame, projectName string) []Candidate {
	var cands []Candidate
	for _, sel := range fileSelectors {
		nodes, err := frame.Query(sel)
		if err != nil {
			e.logger.Debug("discover: selector failed", "selector", sel, "error", err)
			continue
		}
		for _, n := range nodes {
			if !n.Visible() {
				continue
			}
			c, ok := e.candidateFrom(n, projectName)
			if !ok {
				continue
			}
			cands = append(cands, c)
		}
		if len(cands) > 0 {
			e.logger.Debug("discover: selector matched", "selector", sel, "candidates", len(cands))
			break
		}
	}
	if len(cands) == 0 {
		cands = e.scanStatic(frame, projectName)
	}
	return orderCandidates(dedupCandidates(cands))
}

// candidateFrom builds a candidate from one element, or reports false when
// the element has no usable file name or looks like a folder.
func (e *Engine) candidateFrom(n browse.Node, projectName string) (Candidate, bool) {
	label := nodeLabel(n)
	if label == "" {
		return Candidate{}, false
	}
	if isFolderLabel(label) {
		return Candidate{}, false
	}
	name := ExtractFileName(label)
	if name == "" {
		return Candidate{}, false
	}
	return Candidate{
		FileName:       name,
		OriginalLabel:  label,
		IsBriefingHint: isBriefingName(name, projectName),
		Node:           n,
	}, true
}

// nodeLabel resolves the element's display label: ARIA label first, then
// title-like attributes, then raw text.
func nodeLabel(n browse.Node) string {
	for _, attr := range nameAttrs {
		if v, ok := n.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(n.Text())
}

func isFolderLabel(label string) bool {
	folded := textnorm.Fold(label)
	for _, w := range folderWords {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

// isBriefingName reports whether a file name looks like the project's
// briefing: it mentions "brief" outright, or shares at least half of the
// project name's significant tokens.
func isBriefingName(fileName, projectName string) bool {
	folded := textnorm.Fold(fileName)
	if strings.Contains(folded, "brief") {
		return true
	}
	tokens := textnorm.Tokens(projectName, minTokenLen)
	if len(tokens) == 0 {
		return false
	}
	hits := 0
	for _, t := range tokens {
		if strings.Contains(folded, t) {
			hits++
		}
	}
	return float64(hits)/float64(len(tokens)) >= overlapThreshold
}

// dedupCandidates removes exact file-name duplicates, first occurrence wins.
func dedupCandidates(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := cands[:0]
	for _, c := range cands {
		if seen[c.FileName] {
			continue
		}
		seen[c.FileName] = true
		out = append(out, c)
	}
	return out
}

// orderCandidates moves briefing-like candidates ahead of the rest without
// disturbing relative order inside either group.
func orderCandidates(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.IsBriefingHint {
			out = append(out, c)
		}
	}
	for _, c := range cands {
		if !c.IsBriefingHint {
			out = append(out, c)
		}
	}
	return out
}
