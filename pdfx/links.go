package pdfx

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// DAMShortHost is the canonical host that /content/dam/ asset links are
// rebased onto for the shortened form.
const DAMShortHost = "https://assets.brandhub.com"

const damSegment = "/content/dam/"

var urlRe = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// collectLinks fills LinksFull, LinksShort and LinksDetailed from the body
// text, every surviving comment, rich-text trees, and link annotations.
// All three slices are always non-nil.
func (e *Extractor) collectLinks(res *Result, extras annotExtras) {
	var detailed []Link

	for _, u := range urlRe.FindAllString(res.Text, -1) {
		detailed = append(detailed, Link{URL: trimLink(u), Source: "body"})
	}
	for _, c := range res.Comments {
		for _, u := range urlRe.FindAllString(c.Text, -1) {
			detailed = append(detailed, Link{URL: trimLink(u), Source: "comment", Page: c.Page})
		}
	}
	for _, rb := range extras.rich {
		for _, u := range richTextLinks(rb.html) {
			detailed = append(detailed, Link{URL: trimLink(u), Source: "comment", Page: rb.page})
		}
	}
	detailed = append(detailed, extras.links...)

	res.LinksDetailed = dedupLinks(detailed)
	res.LinksFull = make([]string, 0, len(res.LinksDetailed))
	res.LinksShort = make([]string, 0, len(res.LinksDetailed))
	for _, l := range res.LinksDetailed {
		res.LinksFull = append(res.LinksFull, l.URL)
		res.LinksShort = append(res.LinksShort, ShortenDAMLink(l.URL))
	}
}

// richTextLinks traverses an /RC XHTML fragment and returns every href plus
// any URL-looking text node, in document order.
func richTextLinks(fragment string) []string {
	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return urlRe.FindAllString(fragment, -1)
	}
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" && strings.HasPrefix(a.Val, "http") {
					out = append(out, a.Val)
				}
			}
		}
		if n.Type == html.TextNode {
			out = append(out, urlRe.FindAllString(n.Data, -1)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return out
}

// ShortenDAMLink rebases a Digital Asset Management link onto the canonical
// short host. Links without a /content/dam/ segment pass through unchanged.
func ShortenDAMLink(u string) string {
	idx := strings.Index(u, damSegment)
	if idx < 0 {
		return u
	}
	return DAMShortHost + u[idx:]
}

func trimLink(u string) string {
	return strings.TrimRight(u, ".,;)")
}

// dedupLinks removes exact URL duplicates, first occurrence wins.
func dedupLinks(links []Link) []Link {
	seen := make(map[string]bool, len(links))
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.URL == "" || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	// Deterministic across runs: input traversal is already ordered, but
	// annotation link order can vary with xref layout, so sort comment-page
	// groups stably by page.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Page < out[j].Page
	})
	return out
}
