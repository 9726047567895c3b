package vcard

import "testing"

func TestStructuredNameRawShapeToValue(t *testing.T) {
	n := NewRawName("John Doe")
	if got := n.ToValue(); got != "John Doe" {
		t.Fatalf("ToValue() = %q, want %q", got, "John Doe")
	}
	if !n.IsRaw() || n.IsStructured() {
		t.Fatalf("expected raw shape")
	}
}

func TestStructuredNameComponentsToValue(t *testing.T) {
	n := NewStructuredName("Doe", "John", "Q", []string{"Dr."}, []string{"Jr."})
	want := "Doe;John;Q;Dr.;Jr."
	if got := n.ToValue(); got != want {
		t.Fatalf("ToValue() = %q, want %q", got, want)
	}
}

func TestStructuredNameToStructuredHeuristic(t *testing.T) {
	cases := []struct {
		raw    string
		family string
		given  string
	}{
		{"Madonna", "Madonna", ""},
		{"John Doe", "Doe", "John"},
		{"John Q Doe", "Doe", "John"},
	}
	for _, c := range cases {
		n := NewRawName(c.raw).ToStructured()
		if n.Family != c.family || n.Given != c.given {
			t.Errorf("ToStructured(%q) = {Family:%q Given:%q}, want {%q %q}", c.raw, n.Family, n.Given, c.family, c.given)
		}
	}
}

func TestFromNameComponentsPreservesEmptyFields(t *testing.T) {
	n := fromNameComponents([]string{"Doe", "John", "", "", ""})
	if n.Family != "Doe" || n.Given != "John" || n.Additional != "" {
		t.Fatalf("unexpected components: %+v", n)
	}
	if len(n.Prefixes) != 0 || len(n.Suffixes) != 0 {
		t.Fatalf("expected no prefixes/suffixes, got %+v", n)
	}
}
