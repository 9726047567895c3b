package vcard

import (
	"strings"

	"github.com/zedaapi/vcardcore/internal/escape"
)

// Address is the dual-shape ADR property value (spec §3, §9): the seven
// RFC 6350 components, or a single raw string when the producer emitted no
// ';' separators. Exactly one shape is populated.
type Address struct {
	isRaw bool
	raw   string

	POBox      string
	Extended   string
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string

	Params *Parameters
	Types  []string
	Pref   int // 0 when absent
}

// NewRawAddress builds a raw-shape Address.
func NewRawAddress(raw string) Address {
	return Address{isRaw: true, raw: raw, Params: NewParameters()}
}

// NewStructuredAddress builds a structured-shape Address.
func NewStructuredAddress(pobox, extended, street, city, region, postal, country string) Address {
	return Address{
		POBox: pobox, Extended: extended, Street: street, City: city,
		Region: region, PostalCode: postal, Country: country,
		Params: NewParameters(),
	}
}

// IsRaw reports whether this value holds the unstructured-string shape.
func (a Address) IsRaw() bool { return a.isRaw }

// IsStructured reports whether this value holds the decomposed shape.
func (a Address) IsStructured() bool { return !a.isRaw }

// RawValue returns the opaque string when IsRaw is true.
func (a Address) RawValue() string { return a.raw }

// ToValue renders the property value per spec §4.E.
func (a Address) ToValue() string {
	if a.isRaw {
		return escape.Escape(a.raw)
	}
	parts := []string{
		escape.Escape(a.POBox),
		escape.Escape(a.Extended),
		escape.Escape(a.Street),
		escape.Escape(a.City),
		escape.Escape(a.Region),
		escape.Escape(a.PostalCode),
		escape.Escape(a.Country),
	}
	return strings.Join(parts, ";")
}

func fromAddressComponents(parts []string) Address {
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	a := NewStructuredAddress(get(0), get(1), get(2), get(3), get(4), get(5), get(6))
	return a
}
