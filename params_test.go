package vcard

import "testing"

func TestParametersAddAccumulatesUnderSameName(t *testing.T) {
	p := NewParameters()
	p.Add("TYPE", "work")
	p.Add("type", "voice")

	got := p.Values("TYPE")
	if len(got) != 2 || got[0] != "work" || got[1] != "voice" {
		t.Fatalf("Values(TYPE) = %v, want [work voice]", got)
	}
}

func TestParametersTypeValuesCombinesBareAndNamed(t *testing.T) {
	p := NewParameters()
	p.AddBare("WORK")
	p.AddBare("UNKNOWNTOKEN")
	p.Add("TYPE", "cell")

	got := p.TypeValues()
	want := []string{"cell", "work"}
	if len(got) != len(want) {
		t.Fatalf("TypeValues() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TypeValues() = %v, want %v", got, want)
		}
	}
}

func TestParametersIsPreferred(t *testing.T) {
	p1 := NewParameters()
	p1.Add("PREF", "1")
	if !p1.IsPreferred() {
		t.Fatalf("expected PREF=1 to be preferred")
	}

	p2 := NewParameters()
	p2.AddBare("pref")
	if !p2.IsPreferred() {
		t.Fatalf("expected bare pref token to be preferred")
	}

	p3 := NewParameters()
	if p3.IsPreferred() {
		t.Fatalf("expected empty parameters to not be preferred")
	}
}

func TestParametersOpaqueParameterRoundTrips(t *testing.T) {
	p := NewParameters()
	p.Add("WAID", "15551234567")

	got, ok := p.First("WAID")
	if !ok || got != "15551234567" {
		t.Fatalf("First(WAID) = (%q, %v), want (%q, true)", got, ok, "15551234567")
	}
}

func TestParametersCloneIsIndependent(t *testing.T) {
	p := NewParameters()
	p.Add("TYPE", "work")
	clone := p.Clone()
	clone.Add("TYPE", "home")

	if len(p.Values("TYPE")) != 1 {
		t.Fatalf("mutating clone affected original: %v", p.Values("TYPE"))
	}
}
