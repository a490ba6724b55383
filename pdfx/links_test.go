package pdfx

import (
	"reflect"
	"testing"
)

func TestShortenDAMLink(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{
			"https://author.acme.com/assetdetails.html/content/dam/campaigns/5372048/hero.png",
			DAMShortHost + "/content/dam/campaigns/5372048/hero.png",
		},
		{
			"https://example.com/no/dam/here.png",
			"https://example.com/no/dam/here.png",
		},
	}
	for _, tc := range cases {
		if got := ShortenDAMLink(tc.in); got != tc.want {
			t.Errorf("ShortenDAMLink(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCollectLinks_BodyAndComments(t *testing.T) {
	// WHAT: Links from body text and comments land in all three slices,
	// deduplicated, never nil.
	// WHY: Downstream consumers index LinksFull/LinksShort without checks.
	e := New(Config{})
	res := &Result{
		Text: "veja https://example.com/brief.pdf e https://example.com/brief.pdf.",
		Comments: []Comment{
			{Page: 2, Text: "asset em https://author.acme.com/x/content/dam/c/a.png"},
		},
	}
	e.collectLinks(res, annotExtras{})

	if res.LinksFull == nil || res.LinksShort == nil || res.LinksDetailed == nil {
		t.Fatal("link slices must never be nil")
	}
	want := []string{
		"https://example.com/brief.pdf",
		"https://author.acme.com/x/content/dam/c/a.png",
	}
	if !reflect.DeepEqual(res.LinksFull, want) {
		t.Fatalf("LinksFull = %v, want %v", res.LinksFull, want)
	}
	if res.LinksShort[1] != DAMShortHost+"/content/dam/c/a.png" {
		t.Fatalf("LinksShort[1] = %q", res.LinksShort[1])
	}
	if res.LinksShort[0] != "https://example.com/brief.pdf" {
		t.Fatalf("non-DAM link must pass through, got %q", res.LinksShort[0])
	}
}

func TestCollectLinks_EmptyInput(t *testing.T) {
	// WHAT: Zero links still yields empty (not nil) slices.
	e := New(Config{})
	res := &Result{Text: "sem links aqui"}
	e.collectLinks(res, annotExtras{})
	if res.LinksFull == nil || len(res.LinksFull) != 0 {
		t.Fatalf("LinksFull = %v", res.LinksFull)
	}
}

func TestRichTextLinks(t *testing.T) {
	// WHAT: hrefs and URL-looking text nodes are pulled out of /RC markup.
	// WHY: Some authoring tools put the only copy of a link in rich content.
	frag := `<body xmlns="http://www.w3.org/1999/xhtml"><p>ver
	<a href="https://example.com/a">aqui</a> ou https://example.com/b</p></body>`
	got := richTextLinks(frag)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0] != "https://example.com/a" || got[1] != "https://example.com/b" {
		t.Fatalf("got %v", got)
	}
}

func TestTrimLink(t *testing.T) {
	if got := trimLink("https://example.com/x)."); got != "https://example.com/x" {
		t.Fatalf("got %q", got)
	}
}
