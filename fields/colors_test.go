package fields

import "testing"

func TestCanonicalize_RoundTrip(t *testing.T) {
	// WHAT: Every synonym of a palette entry resolves to the same canonical
	// string as the entry's exact name.
	// WHY: Color fields must compare equal regardless of how reviewers
	// spelled them.
	for _, p := range palette {
		want := Canonicalize(p.Name)
		for _, syn := range p.Synonyms {
			if got := Canonicalize(syn); got != want {
				t.Errorf("Canonicalize(%q) = %q, want %q", syn, got, want)
			}
		}
		if got := Canonicalize(want); got != want {
			t.Errorf("canonical form is not a fixed point: %q -> %q", want, got)
		}
	}
}

func TestCanonicalize_AccentAndCaseInsensitive(t *testing.T) {
	if got := Canonicalize("VERDE LIMAO"); got != "Lime (Green 300)" {
		t.Fatalf("got %q", got)
	}
	if got := Canonicalize("Lilás"); got != "Aura (Purple 400)" {
		t.Fatalf("got %q", got)
	}
}

func TestCanonicalize_UnknownFallsBackCapitalized(t *testing.T) {
	// WHAT: Colors outside the palette pass through capitalized.
	// WHY: Unknown colors must stay visible in reports, not vanish.
	if got := Canonicalize("magenta neon"); got != "Magenta neon" {
		t.Fatalf("got %q", got)
	}
}
