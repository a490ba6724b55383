package discover

import "testing"

func TestExtractFileName(t *testing.T) {
	cases := []struct {
		name  string
		label string
		want  string
	}{
		{"dsid wins over generic", "ver detalhes 5372048_briefing.pdf entre outros.pdf", "5372048_briefing.pdf"},
		{"generic pdf", "Documento: notas da reunião notas.pdf 2,3 MB", "notas.pdf"},
		{"noise around name", "★ 5372048_brief_final.pdf — atualizado ontem", "5372048_brief_final.pdf"},
		{"line scan fallback", "Visualizar\nrelatorio.docx\n12 KB", "relatorio.docx"},
		{"illegal chars stripped", `pasta\briefing?.pdf`, "pastabriefing.pdf"},
		{"nothing usable", "Abrir Compartilhar Excluir", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := ExtractFileName(tc.label); got != tc.want {
			t.Errorf("%s: ExtractFileName(%q) = %q, want %q", tc.name, tc.label, got, tc.want)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName(`  a/b:c  d.pdf `); got != "abc d.pdf" {
		t.Errorf("got %q", got)
	}
}
