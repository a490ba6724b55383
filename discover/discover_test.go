package discover

import (
	"testing"

	"briefpipe/browse"
)

func nodeWith(attrs map[string]string, text string) *browse.FakeNode {
	return &browse.FakeNode{Attrs: attrs, TextVal: text}
}

func TestScanNameCascade(t *testing.T) {
	// WHAT: ARIA label beats title beats raw text when resolving a label.
	frame := &browse.FakeFrame{Nodes: map[string][]*browse.FakeNode{
		`[data-testid="document-item"]`: {
			nodeWith(map[string]string{"aria-label": "5372048_briefing.pdf", "title": "wrong.pdf"}, "also wrong"),
			nodeWith(map[string]string{"title": "notas_reuniao.pdf"}, ""),
			nodeWith(nil, "extra_material.pdf"),
		},
	}}
	got := New(nil).Scan(frame, "Campanha Verão")
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	names := map[string]bool{}
	for _, c := range got {
		names[c.FileName] = true
	}
	for _, want := range []string{"5372048_briefing.pdf", "notas_reuniao.pdf", "extra_material.pdf"} {
		if !names[want] {
			t.Errorf("missing candidate %q (got %v)", want, names)
		}
	}
}

func TestScanBriefingFirstOrdering(t *testing.T) {
	// WHAT: Briefing-like candidates always precede the rest, each group in
	// discovery order.
	frame := &browse.FakeFrame{Nodes: map[string][]*browse.FakeNode{
		`[data-testid="document-item"]`: {
			nodeWith(nil, "notes.pdf"),
			nodeWith(nil, "5372048_briefing.pdf"),
			nodeWith(nil, "assets.pdf"),
			nodeWith(nil, "brief_v2.pdf"),
		},
	}}
	got := New(nil).Scan(frame, "")
	want := []string{"5372048_briefing.pdf", "brief_v2.pdf", "notes.pdf", "assets.pdf"}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].FileName != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].FileName, w)
		}
	}
}

func TestScanSkipsFoldersAndInvisible(t *testing.T) {
	frame := &browse.FakeFrame{Nodes: map[string][]*browse.FakeNode{
		`[data-testid="document-item"]`: {
			nodeWith(map[string]string{"aria-label": "Pasta Briefings briefing.pdf"}, ""),
			{Attrs: map[string]string{"aria-label": "hidden.pdf"}, Hidden: true},
			nodeWith(nil, "visible.pdf"),
		},
	}}
	got := New(nil).Scan(frame, "")
	if len(got) != 1 || got[0].FileName != "visible.pdf" {
		t.Fatalf("got %v, want only visible.pdf", got)
	}
}

func TestScanDeduplicatesByName(t *testing.T) {
	// WHAT: Exact-name duplicates collapse, first occurrence wins.
	first := nodeWith(nil, "briefing.pdf")
	frame := &browse.FakeFrame{Nodes: map[string][]*browse.FakeNode{
		`[data-testid="document-item"]`: {
			first,
			nodeWith(nil, "briefing.pdf"),
		},
	}}
	got := New(nil).Scan(frame, "")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Node != browse.Node(first) {
		t.Error("duplicate replaced the first occurrence")
	}
}

func TestScanTokenOverlapHint(t *testing.T) {
	// WHAT: A name sharing ≥50% of the project name's significant tokens is
	// briefing-like even without "brief" in it.
	frame := &browse.FakeFrame{Nodes: map[string][]*browse.FakeNode{
		`[data-testid="document-item"]`: {
			nodeWith(nil, "campanha_verao_total.pdf"),
			nodeWith(nil, "unrelated.pdf"),
		},
	}}
	got := New(nil).Scan(frame, "Campanha Verão Total")
	if !got[0].IsBriefingHint || got[0].FileName != "campanha_verao_total.pdf" {
		t.Fatalf("overlap candidate not flagged: %+v", got)
	}
	for _, c := range got {
		if c.FileName == "unrelated.pdf" && c.IsBriefingHint {
			t.Error("unrelated.pdf wrongly flagged as briefing")
		}
	}
}

func TestScanEmptyIsValidOutcome(t *testing.T) {
	// WHY: Total discovery failure is reportable, never an error.
	got := New(nil).Scan(&browse.FakeFrame{}, "Campanha")
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestScanStaticFallback(t *testing.T) {
	// WHAT: With zero live matches the engine parses the HTML snapshot.
	frame := &browse.FakeFrame{
		HTMLDoc: `<ul><li><a href="#">5372048_briefing_final.pdf</a></li><li><a href="#">Pasta Antiga</a></li></ul>`,
	}
	got := New(nil).Scan(frame, "")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].FileName != "5372048_briefing_final.pdf" {
		t.Errorf("got %q", got[0].FileName)
	}
	if got[0].Node != nil {
		t.Error("static candidates must not carry a live node handle")
	}
}
