package vcard

import "testing"

func TestParseVersionKnownValues(t *testing.T) {
	cases := map[string]Version{"2.1": V21, "3.0": V30, "4.0": V40}
	for s, want := range cases {
		got, ok := ParseVersion(s)
		if !ok || got != want {
			t.Errorf("ParseVersion(%q) = (%v, %v), want (%v, true)", s, got, ok, want)
		}
	}
}

func TestParseVersionUnknownDefaultsButReportsNotOK(t *testing.T) {
	got, ok := ParseVersion("1.0")
	if ok {
		t.Fatalf("expected ok=false for unknown version")
	}
	if got != DefaultVersion {
		t.Fatalf("ParseVersion(unknown) = %v, want default %v", got, DefaultVersion)
	}
}

func TestVersionStringRoundTrip(t *testing.T) {
	for _, v := range []Version{V21, V30, V40} {
		s := v.String()
		back, ok := ParseVersion(s)
		if !ok || back != v {
			t.Errorf("String/ParseVersion round trip failed for %v: got %q -> %v", v, s, back)
		}
	}
}
