package pdfx

import (
	"sort"
	"strings"
	"unicode"
)

// dedupComments removes same-page near-duplicates and fixes the final
// ordering: page ascending, discovery order within a page. The pass is a
// fixed point — running it on its own output changes nothing.
func (e *Extractor) dedupComments(comments []Comment) []Comment {
	kept := make([]Comment, 0, len(comments))
	for _, c := range comments {
		dup := false
		for _, k := range kept {
			if k.Page != c.Page {
				continue
			}
			if wordOverlap(k.Text, c.Text) >= e.cfg.DupThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Page < kept[j].Page
	})
	return kept
}

// wordOverlap is a Jaccard similarity over the normalized word sets of two
// texts. Case and punctuation differences do not count.
func wordOverlap(a, b string) float64 {
	sa := wordSet(a)
	sb := wordSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for w := range sa {
		if sb[w] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		set[w] = true
	}
	return set
}
