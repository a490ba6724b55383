package fields

import (
	"strings"

	"briefpipe/pdfx"
)

// vfKeywords are the known visual-framework campaign names. The scan runs
// even without a "VF:" label — briefs often just drop the campaign name into
// body copy. Order matters: more specific names first, first hit wins.
var vfKeywords = []string{
	"Verão Total",
	"Sinta o Ritmo",
	"Mundo Conectado",
	"Juntos Dá Certo",
	"Vem Que Tem",
	"Black Friday",
	"Dia das Mães",
	"Natal Iluminado",
	"Volta às Aulas",
}

// scanVF fills VF from brand keywords when the label cascade found nothing.
func scanVF(f *Fields, text string, comments []pdfx.Comment) {
	if f.VF != "" {
		return
	}
	sources := make([]string, 0, len(comments)+1)
	sources = append(sources, text)
	for _, c := range comments {
		sources = append(sources, c.Text)
	}
	for _, src := range sources {
		folded := fold(src)
		for _, kw := range vfKeywords {
			if strings.Contains(folded, fold(kw)) {
				f.VF = kw
				return
			}
		}
	}
}
