package pdfx

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// richBlob is one annotation's /RC markup, kept for the link pass so rich-
// text trees can be traversed without re-reading the PDF.
type richBlob struct {
	page int
	html string
}

// extractComments walks every page's /Annots array and normalizes each
// annotation into a Comment. Link annotations contribute their target URI
// to the link set instead of a comment. Per-annotation failures are skipped;
// only a structural failure of the walk itself is returned as an error.
func (e *Extractor) extractComments(ctx *model.Context) ([]Comment, annotExtras, error) {
	var comments []Comment
	extras := annotExtras{}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return comments, extras, fmt.Errorf("pdfx: page dict %d: %w", pageNr, err)
		}
		if pageDict == nil {
			continue
		}
		obj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		arr, err := ctx.DereferenceArray(obj)
		if err != nil || arr == nil {
			continue
		}

		for _, o := range arr {
			d, err := ctx.DereferenceDict(o)
			if err != nil || d == nil {
				continue
			}
			subtype := dictName(d, "Subtype")
			switch subtype {
			case "Popup", "Widget":
				continue
			case "Link":
				if uri := linkAnnotURI(ctx, d); uri != "" {
					extras.links = append(extras.links, Link{URL: uri, Source: "body", Page: pageNr})
				}
				continue
			}

			c, rich, ok := e.buildComment(ctx, d, pageNr, subtype)
			if !ok {
				continue
			}
			comments = append(comments, c)
			if rich != "" {
				extras.rich = append(extras.rich, richBlob{page: pageNr, html: rich})
			}
		}
	}
	return comments, extras, nil
}

// annotExtras carries the non-comment output of the annotation pass.
type annotExtras struct {
	links []Link
	rich  []richBlob
}

// buildComment normalizes one annotation dict. Returns false when the
// annotation has no usable text after cleaning.
func (e *Extractor) buildComment(ctx *model.Context, d types.Dict, pageNr int, subtype string) (Comment, string, bool) {
	text := cleanCommentText(dictString(ctx, d, "Contents"))
	rich := dictString(ctx, d, "RC")
	if text == "" && rich != "" {
		// Some authoring tools fill only the rich-content entry.
		if md, err := e.conv.ConvertString(rich); err == nil {
			text = cleanCommentText(md)
		}
	}
	if len(strings.TrimSpace(text)) < e.cfg.MinCommentLen {
		return Comment{}, "", false
	}

	c := Comment{
		Page:             pageNr,
		Author:           normalizeAuthor(dictString(ctx, d, "T"), text),
		Type:             annotLabel(subtype),
		Text:             text,
		CreationDate:     parseAnnotDate(dictString(ctx, d, "CreationDate")),
		ModificationDate: parseAnnotDate(dictString(ctx, d, "M")),
	}
	return c, rich, true
}

// linkAnnotURI pulls the /A action's /URI out of a Link annotation.
func linkAnnotURI(ctx *model.Context, d types.Dict) string {
	obj, found := d.Find("A")
	if !found {
		return ""
	}
	action, err := ctx.DereferenceDict(obj)
	if err != nil || action == nil {
		return ""
	}
	return strings.TrimSpace(dictString(ctx, action, "URI"))
}

// dictName resolves a name entry to its string form.
func dictName(d types.Dict, key string) string {
	obj, found := d.Find(key)
	if !found {
		return ""
	}
	if n, ok := obj.(types.Name); ok {
		return string(n)
	}
	return ""
}

// dictString resolves a (possibly indirect, possibly hex-encoded) string
// entry. Unresolvable entries read as empty.
func dictString(ctx *model.Context, d types.Dict, key string) string {
	obj, found := d.Find(key)
	if !found {
		return ""
	}
	resolved, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch s := resolved.(type) {
	case types.StringLiteral:
		str, err := types.StringLiteralToString(s)
		if err != nil {
			return ""
		}
		return str
	case types.HexLiteral:
		str, err := types.HexLiteralToString(s)
		if err != nil {
			return ""
		}
		return str
	}
	return ""
}
