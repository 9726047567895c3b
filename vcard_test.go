package vcard

import "testing"

func TestNewDefaultsToV40(t *testing.T) {
	v := New()
	if v.Version != V40 {
		t.Fatalf("New().Version = %v, want V40", v.Version)
	}
}

func TestNewUIDProducesDistinctValues(t *testing.T) {
	a := NewUID()
	b := NewUID()
	if a == "" || b == "" {
		t.Fatalf("NewUID() returned an empty value")
	}
	if a == b {
		t.Fatalf("NewUID() returned the same value twice: %q", a)
	}
}
