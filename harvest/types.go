package harvest

import (
	"briefpipe/fields"
	"briefpipe/pdfx"
)

// ExtractionResult is the parsed content of one downloaded briefing.
type ExtractionResult struct {
	FileName  string        `json:"fileName"`
	SizeBytes int64         `json:"sizeBytes"`
	Content   pdfx.Result   `json:"content"`
	Fields    fields.Fields `json:"fields"`
}

// Outcome is the result of one project URL. ProjectNumber is the 1-based
// position of the URL in the submitted batch; completion order may differ
// but every outcome stays attributable to its input slot.
type Outcome struct {
	URL           string             `json:"url"`
	ProjectNumber int                `json:"projectNumber"`
	Success       bool               `json:"success"`
	ProjectName   string             `json:"projectName,omitempty"`
	DSID          string             `json:"dsid,omitempty"`
	Results       []ExtractionResult `json:"results,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// Summary aggregates a whole batch. Outcomes is indexed by submission
// order: Outcomes[i].ProjectNumber == i+1.
type Summary struct {
	RunID     string    `json:"run_id"`
	Outcomes  []Outcome `json:"outcomes"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Files     int       `json:"files"`
	Chars     int       `json:"chars"`
}
