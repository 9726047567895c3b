package vcard

import (
	"strings"

	"github.com/zedaapi/vcardcore/internal/escape"
)

// StructuredName is the dual-shape N property value (spec §3, §9): a
// producer either supplied the five-component decomposition, or emitted a
// single unstructured string with no ';' separators. Exactly one shape is
// populated at any time — expressed here as a tagged union via isRaw rather
// than a struct of nullable fields, per spec §9's explicit guidance.
type StructuredName struct {
	isRaw    bool
	raw      string
	Family   string
	Given    string
	Additional string
	Prefixes []string
	Suffixes []string
}

// NewRawName builds a raw-shape StructuredName from an unstructured string.
func NewRawName(raw string) StructuredName {
	return StructuredName{isRaw: true, raw: raw}
}

// NewStructuredName builds a structured-shape StructuredName.
func NewStructuredName(family, given, additional string, prefixes, suffixes []string) StructuredName {
	return StructuredName{
		Family: family, Given: given, Additional: additional,
		Prefixes: prefixes, Suffixes: suffixes,
	}
}

// IsRaw reports whether this value holds the unstructured-string shape.
func (n StructuredName) IsRaw() bool { return n.isRaw }

// IsStructured reports whether this value holds the decomposed shape.
func (n StructuredName) IsStructured() bool { return !n.isRaw }

// RawValue returns the opaque string when IsRaw is true.
func (n StructuredName) RawValue() string { return n.raw }

// ToStructured best-effort splits a raw value into components using
// whitespace and common delimiters, per spec §3. The receiver is unchanged;
// the heuristic result is returned as a new value.
func (n StructuredName) ToStructured() StructuredName {
	if !n.isRaw {
		return n
	}
	fields := strings.Fields(n.raw)
	switch len(fields) {
	case 0:
		return NewStructuredName("", "", "", nil, nil)
	case 1:
		return NewStructuredName(fields[0], "", "", nil, nil)
	case 2:
		return NewStructuredName(fields[1], fields[0], "", nil, nil)
	default:
		given := fields[0]
		family := fields[len(fields)-1]
		middle := strings.Join(fields[1:len(fields)-1], " ")
		return NewStructuredName(family, given, middle, nil, nil)
	}
}

// ToValue renders the property value: the escaped raw string when IsRaw,
// otherwise the semicolon-joined, escaped, empty-preserving components.
func (n StructuredName) ToValue() string {
	if n.isRaw {
		return escape.Escape(n.raw)
	}
	parts := []string{
		escape.Escape(n.Family),
		escape.Escape(n.Given),
		escape.Escape(n.Additional),
		escape.Escape(strings.Join(n.Prefixes, ",")),
		escape.Escape(strings.Join(n.Suffixes, ",")),
	}
	return strings.Join(parts, ";")
}

// fromNameComponents builds a StructuredName from already-unescaped N
// components. Called by the parser (component F) after splitValue(';').
func fromNameComponents(parts []string) StructuredName {
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	splitMulti := func(s string) []string {
		if s == "" {
			return nil
		}
		return strings.Split(s, ",")
	}
	return NewStructuredName(get(0), get(1), get(2), splitMulti(get(3)), splitMulti(get(4)))
}
