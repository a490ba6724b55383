package fields

import (
	"regexp"
	"strings"

	"briefpipe/pdfx"
)

// ratioRe matches an NxM aspect token ("4x5", "9x16", "1080x1920").
var ratioRe = regexp.MustCompile(`\b(\d{1,4})\s*[xX]\s*(\d{1,4})\b`)

// requestLineRe flags a human-language request line ("please create 4x5 and
// 9x16 versions", "criar versões 1x1"). Distinguishes asks from filenames.
var requestLineRe = regexp.MustCompile(
	`(?i)\b(?:please|create|criar|gerar|produzir|precisamos?|fazer|vers[oõ]es?|versions?|adaptar|adapta[cç][aã]o|need)\b`)

// existingTokenRe matches an NxM embedded in a filename-like token
// ("hero_4x5_final.psd"), signalling an asset that already exists.
var existingTokenRe = regexp.MustCompile(`(?i)\S*[_\-.]\d{1,4}x\d{1,4}[_\-.]?\S*\.(?:psd|png|jpe?g|tiff?|ai|pdf|mp4|mov)\b`)

// scanFormats fills Formats from the body text and comments. It runs
// independently of the label cascade — format asks rarely carry a label.
// Requested formats keep first-appearance order, deduplicated.
func scanFormats(f *Fields, text string, comments []pdfx.Comment) {
	sources := make([]string, 0, len(comments)+1)
	sources = append(sources, text)
	for _, c := range comments {
		sources = append(sources, c.Text)
	}

	seenReq := map[string]bool{}
	seenEx := map[string]bool{}

	for _, src := range sources {
		for _, line := range strings.Split(src, "\n") {
			// Existing assets: ratios embedded in filename tokens.
			for _, tok := range existingTokenRe.FindAllString(line, -1) {
				for _, m := range ratioRe.FindAllStringSubmatch(tok, -1) {
					r := m[1] + "x" + m[2]
					if !seenEx[r] {
						seenEx[r] = true
						f.Formats.Existing = append(f.Formats.Existing, r)
					}
				}
			}

			// Requested formats: ratios on a request-language line, minus
			// anything that only appeared inside a filename.
			if !requestLineRe.MatchString(line) {
				continue
			}
			stripped := existingTokenRe.ReplaceAllString(line, " ")
			for _, m := range ratioRe.FindAllStringSubmatch(stripped, -1) {
				r := m[1] + "x" + m[2]
				if !seenReq[r] {
					seenReq[r] = true
					f.Formats.Requested = append(f.Formats.Requested, r)
				}
			}
		}
	}

	f.Formats.Summary = formatSummary(f.Formats)
}

func formatSummary(fm Formats) string {
	var parts []string
	if len(fm.Requested) > 0 {
		parts = append(parts, "Solicitados: "+strings.Join(fm.Requested, ", "))
	}
	if len(fm.Existing) > 0 {
		parts = append(parts, "Existentes: "+strings.Join(fm.Existing, ", "))
	}
	return strings.Join(parts, " | ")
}
