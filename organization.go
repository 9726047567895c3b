package vcard

import (
	"strings"

	"github.com/zedaapi/vcardcore/internal/escape"
)

// Organization is the dual-shape ORG property value (spec §3, §9): a name
// plus ordered organizational units, or a single raw string when the
// producer emitted no ';' separators.
type Organization struct {
	isRaw bool
	raw   string

	Name  string
	Units []string
}

// NewRawOrganization builds a raw-shape Organization.
func NewRawOrganization(raw string) Organization {
	return Organization{isRaw: true, raw: raw}
}

// NewStructuredOrganization builds a structured-shape Organization.
func NewStructuredOrganization(name string, units []string) Organization {
	return Organization{Name: name, Units: units}
}

// IsRaw reports whether this value holds the unstructured-string shape.
func (o Organization) IsRaw() bool { return o.isRaw }

// IsStructured reports whether this value holds the decomposed shape.
func (o Organization) IsStructured() bool { return !o.isRaw }

// RawValue returns the opaque string when IsRaw is true.
func (o Organization) RawValue() string { return o.raw }

// ToValue renders the property value: the name followed by each unit,
// semicolon-joined and escaped per component.
func (o Organization) ToValue() string {
	if o.isRaw {
		return escape.Escape(o.raw)
	}
	parts := make([]string, 0, 1+len(o.Units))
	parts = append(parts, escape.Escape(o.Name))
	for _, u := range o.Units {
		parts = append(parts, escape.Escape(u))
	}
	return strings.Join(parts, ";")
}

func fromOrganizationComponents(parts []string) Organization {
	if len(parts) == 0 {
		return NewStructuredOrganization("", nil)
	}
	return NewStructuredOrganization(parts[0], parts[1:])
}
