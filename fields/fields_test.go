package fields

import (
	"encoding/json"
	"testing"

	"briefpipe/pdfx"
)

func TestExtract_BackgroundOnly(t *testing.T) {
	// WHAT: "Background: Cosmos (Slate 700)" with no copy-color label sets
	// backgroundColor canonically and leaves copyColor empty.
	// WHY: A lone background mention must not bleed into the copy color.
	f := Extract("Background: Cosmos (Slate 700)\nHeadline: Verão Total", nil)
	if f.BackgroundColor != "Cosmos (Slate 700)" {
		t.Fatalf("backgroundColor = %q", f.BackgroundColor)
	}
	if f.CopyColor != "" {
		t.Fatalf("copyColor should stay empty, got %q", f.CopyColor)
	}
}

func TestExtract_CombinedColorLine(t *testing.T) {
	// WHAT: A single line naming both colors splits into both fields before
	// the individual rules run.
	f := Extract("Cores: fundo Cosmos e copy branco", nil)
	if f.BackgroundColor != "Cosmos (Slate 700)" {
		t.Fatalf("backgroundColor = %q", f.BackgroundColor)
	}
	if f.CopyColor != "Snow (White)" {
		t.Fatalf("copyColor = %q", f.CopyColor)
	}
}

func TestExtract_TextTakesPrecedenceOverComments(t *testing.T) {
	// WHAT: A field found in body text is locked against comment values.
	// WHY: Body text is the authored brief; comments are reviewer chatter.
	text := "Headline: Verão Total"
	comments := []pdfx.Comment{{Page: 1, Text: "Headline: outra coisa"}}
	f := Extract(text, comments)
	if f.Headline != "Verão Total" {
		t.Fatalf("headline = %q", f.Headline)
	}
}

func TestExtract_CommentFillsUnsetField(t *testing.T) {
	// WHAT: A field missing from text is picked up from the first matching
	// comment.
	comments := []pdfx.Comment{
		{Page: 1, Text: "CTA: Aproveite agora"},
		{Page: 2, Text: "CTA: Compre já"},
	}
	f := Extract("sem labels aqui", comments)
	if f.CTA != "Aproveite agora" {
		t.Fatalf("cta = %q", f.CTA)
	}
}

func TestExtract_LabelFields(t *testing.T) {
	text := "Live date: 10/02/2025\n" +
		"VF: Sinta o Ritmo\n" +
		"Título: Chegou o verão\n" +
		"Copy: aproveite as ofertas\n" +
		"Descrição: campanha de janeiro\n" +
		"CTA: Saiba mais\n" +
		"Pós-copy: consulte condições\n" +
		"URN: BR-2025-00481\n" +
		"Allocadia: AL-99021\n" +
		"PO: 4500012345\n"
	f := Extract(text, nil)
	if f.LiveDate != "10/02/2025" {
		t.Errorf("liveDate = %q", f.LiveDate)
	}
	if f.VF != "Sinta o Ritmo" {
		t.Errorf("vf = %q", f.VF)
	}
	if f.Headline != "Chegou o verão" {
		t.Errorf("headline = %q", f.Headline)
	}
	if f.Copy != "aproveite as ofertas" {
		t.Errorf("copy = %q", f.Copy)
	}
	if f.Description != "campanha de janeiro" {
		t.Errorf("description = %q", f.Description)
	}
	if f.CTA != "Saiba mais" {
		t.Errorf("cta = %q", f.CTA)
	}
	if f.Postcopy != "consulte condições" {
		t.Errorf("postcopy = %q", f.Postcopy)
	}
	if f.URN != "BR-2025-00481" {
		t.Errorf("urn = %q", f.URN)
	}
	if f.Allocadia != "AL-99021" {
		t.Errorf("allocadia = %q", f.Allocadia)
	}
	if f.PO != "4500012345" {
		t.Errorf("po = %q", f.PO)
	}
}

func TestExtract_VFKeywordScanWithoutLabel(t *testing.T) {
	// WHAT: A known campaign name in body copy fills VF without any label.
	f := Extract("peça alinhada à campanha verao total do trimestre", nil)
	if f.VF != "Verão Total" {
		t.Fatalf("vf = %q", f.VF)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	// WHAT: Identical input produces byte-identical JSON output across runs.
	// WHY: The business team diffs extractions; any nondeterminism breaks
	// their workflow.
	text := "Background: azul\nHeadline: Promo\nplease create 4x5 and 9x16 versions"
	comments := []pdfx.Comment{{Page: 1, Text: "Copy color: preto"}}
	a, _ := json.Marshal(Extract(text, comments))
	for i := 0; i < 10; i++ {
		b, _ := json.Marshal(Extract(text, comments))
		if string(a) != string(b) {
			t.Fatalf("run %d differs:\n%s\n%s", i, a, b)
		}
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	// WHAT: Empty input yields a zero schema with non-nil format slices.
	f := Extract("", nil)
	if f.Formats.Requested == nil || f.Formats.Existing == nil {
		t.Fatal("format slices must never be nil")
	}
	if f.Headline != "" || f.BackgroundColor != "" {
		t.Fatalf("unexpected fields: %+v", f)
	}
}
