package fields

import (
	"strings"
	"unicode"

	"briefpipe/textnorm"
)

// paletteEntry is one color of the closed brand palette. Synonyms cover the
// spellings observed in briefings (English, Portuguese, design-system alias).
type paletteEntry struct {
	Name     string
	Alias    string
	Synonyms []string
}

// palette is the closed brand palette. Canonical output is "Name (Alias)"
// when an alias exists, otherwise just "Name".
var palette = []paletteEntry{
	{Name: "Cosmos", Alias: "Slate 700", Synonyms: []string{"cosmos", "slate 700", "slate700", "cinza escuro", "dark slate"}},
	{Name: "Snow", Alias: "White", Synonyms: []string{"snow", "white", "branco", "branca"}},
	{Name: "Night", Alias: "Black", Synonyms: []string{"night", "black", "preto", "preta"}},
	{Name: "Aura", Alias: "Purple 400", Synonyms: []string{"aura", "purple 400", "roxo", "roxa", "lilás"}},
	{Name: "Sky", Alias: "Blue 500", Synonyms: []string{"sky", "blue 500", "azul", "azul claro"}},
	{Name: "Ocean", Alias: "Blue 800", Synonyms: []string{"ocean", "blue 800", "azul escuro", "navy"}},
	{Name: "Lime", Alias: "Green 300", Synonyms: []string{"lime", "green 300", "verde claro", "verde limão"}},
	{Name: "Forest", Alias: "Green 700", Synonyms: []string{"forest", "green 700", "verde escuro", "verde"}},
	{Name: "Flame", Alias: "Red 500", Synonyms: []string{"flame", "red 500", "vermelho", "vermelha"}},
	{Name: "Sunset", Alias: "Orange 400", Synonyms: []string{"sunset", "orange 400", "laranja"}},
	{Name: "Honey", Alias: "Yellow 300", Synonyms: []string{"honey", "yellow 300", "amarelo", "amarela"}},
	{Name: "Blush", Alias: "Pink 300", Synonyms: []string{"blush", "pink 300", "rosa"}},
}

// Canonicalize resolves a raw color mention against the palette. Any synonym
// of an entry resolves to the same canonical string as the entry's exact
// name. Unresolved input falls back to its capitalized raw form.
func Canonicalize(raw string) string {
	key := fold(raw)
	for _, p := range palette {
		if key == fold(canonicalString(p)) || key == fold(p.Name) {
			return canonicalString(p)
		}
		for _, syn := range p.Synonyms {
			if key == fold(syn) {
				return canonicalString(p)
			}
		}
	}
	return capitalize(strings.TrimSpace(raw))
}

func canonicalString(p paletteEntry) string {
	if p.Alias == "" {
		return p.Name
	}
	return p.Name + " (" + p.Alias + ")"
}

// fold normalizes a color mention so "Verde Limão" and "verde limao"
// compare equal.
func fold(s string) string {
	return textnorm.Fold(s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
