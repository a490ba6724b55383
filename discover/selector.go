package discover

import (
	"fmt"
	"math"
	"strings"

	"briefpipe/textnorm"
)

// Scoring weights for primary-briefing selection. Exposed as variables so
// operators can tune them without a rebuild of the heuristics themselves.
var (
	// ScoreHint rewards candidates discovery already flagged as briefing-like.
	ScoreHint = 120
	// ScoreNameBriefing rewards "briefing" in the file name; ScoreNameBrief
	// is the weaker "brief" match and never stacks with it.
	ScoreNameBriefing = 80
	ScoreNameBrief    = 60
	// ScoreOverlapMax scales the project-name token overlap bonus.
	ScoreOverlapMax = 50
	// UnderscorePenalty applies per underscore beyond UnderscoreAllowance;
	// machine-generated export names tend to be underscore-heavy.
	UnderscorePenalty   = 3
	UnderscoreAllowance = 6
	// ShortNameBonus rewards names at or under ShortNameLen characters.
	ShortNameBonus = 10
	ShortNameLen   = 40
)

// ScoredCandidate is a candidate plus its selection score and the reason
// trail explaining it.
type ScoredCandidate struct {
	Candidate
	Score  int
	Reason string
}

// SelectPrimary picks the single most briefing-like candidate, with a
// human-readable reason. It returns nil when scoring cannot tell the
// candidates apart (every score identical); the caller then falls back to
// the first candidate with its own fallback reason. With a distinct top
// score shared by several candidates, the earliest of them wins, so the
// same input always resolves to the same winner.
func SelectPrimary(cands []Candidate, projectName string) *ScoredCandidate {
	if len(cands) == 0 {
		return nil
	}
	scored := make([]ScoredCandidate, len(cands))
	for i, c := range cands {
		scored[i] = scoreCandidate(c, projectName)
	}
	best := 0
	allEqual := true
	for i := 1; i < len(scored); i++ {
		if scored[i].Score != scored[0].Score {
			allEqual = false
		}
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	if allEqual && len(scored) > 1 {
		return nil
	}
	return &scored[best]
}

func scoreCandidate(c Candidate, projectName string) ScoredCandidate {
	score := 0
	var reasons []string
	folded := textnorm.Fold(c.FileName)

	if c.IsBriefingHint {
		score += ScoreHint
		reasons = append(reasons, "marcado como briefing na descoberta")
	}
	switch {
	case strings.Contains(folded, "briefing"):
		score += ScoreNameBriefing
		reasons = append(reasons, `nome contém "briefing"`)
	case strings.Contains(folded, "brief"):
		score += ScoreNameBrief
		reasons = append(reasons, `nome contém "brief"`)
	}
	if bonus, hits, total := overlapBonus(folded, projectName); bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("sobreposição com nome do projeto %d/%d", hits, total))
	}
	if n := strings.Count(c.FileName, "_"); n > UnderscoreAllowance {
		penalty := UnderscorePenalty * (n - UnderscoreAllowance)
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("penalidade por %d underscores", n))
	}
	if len(c.FileName) <= ShortNameLen {
		score += ShortNameBonus
		reasons = append(reasons, "nome curto")
	}
	return ScoredCandidate{Candidate: c, Score: score, Reason: strings.Join(reasons, "|")}
}

// overlapBonus is round(ScoreOverlapMax × hits/total) over the project
// name's significant tokens. Zero tokens means zero bonus.
func overlapBonus(foldedName, projectName string) (bonus, hits, total int) {
	tokens := textnorm.Tokens(projectName, minTokenLen)
	total = len(tokens)
	if total == 0 {
		return 0, 0, 0
	}
	for _, t := range tokens {
		if strings.Contains(foldedName, t) {
			hits++
		}
	}
	bonus = int(math.Round(float64(ScoreOverlapMax) * float64(hits) / float64(total)))
	return bonus, hits, total
}
