package vcard

import "testing"

func TestAddressRawShapeNotPaddedWithSemicolons(t *testing.T) {
	a := NewRawAddress("123 Main St")
	if got := a.ToValue(); got != "123 Main St" {
		t.Fatalf("ToValue() = %q, want %q", got, "123 Main St")
	}
}

func TestAddressStructuredShapeToValue(t *testing.T) {
	a := NewStructuredAddress("", "", "123 Main St", "City", "State", "12345", "USA")
	want := ";;123 Main St;City;State;12345;USA"
	if got := a.ToValue(); got != want {
		t.Fatalf("ToValue() = %q, want %q", got, want)
	}
}

func TestAddressEscapesComponentSeparators(t *testing.T) {
	a := NewStructuredAddress("", "", "Main St, Suite 1", "City", "", "", "")
	got := a.ToValue()
	want := ";;Main St\\, Suite 1;City;;;"
	if got != want {
		t.Fatalf("ToValue() = %q, want %q", got, want)
	}
}
