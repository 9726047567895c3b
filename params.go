package vcard

import (
	"strconv"
	"strings"
)

// knownTypeTokens is the whitelist of vCard 2.1 bare tokens that count as
// TYPE values when no explicit TYPE= parameter is present (spec §4.D).
var knownTypeTokens = map[string]bool{
	"WORK": true, "HOME": true, "CELL": true, "VOICE": true, "FAX": true,
	"PAGER": true, "TEXTPHONE": true, "TEXT": true, "MSG": true, "POSTAL": true,
	"PARCEL": true, "DOM": true, "INTL": true, "PREF": true, "INTERNET": true,
	"X400": true, "BBS": true, "MODEM": true, "CAR": true, "ISDN": true,
	"PCS": true, "VIDEO": true,
}

// paramEntry is one name -> values pair in parameter-arrival order.
type paramEntry struct {
	name   string // case-folded to uppercase
	values []string
}

// Parameters is an ordered, multi-valued, case-insensitive map of vCard
// parameter names, plus the parallel list of vCard 2.1 bare tokens (types
// written without "TYPE=", e.g. "WORK"). Any non-standard parameter (a
// WhatsApp-style "waid=" on TEL, for instance) round-trips through this
// model without special casing — Set/Values treat it like any other name.
type Parameters struct {
	entries []paramEntry
	bare    []string // original casing as encountered
}

// NewParameters returns an empty Parameters value.
func NewParameters() *Parameters {
	return &Parameters{}
}

// Add appends a value under name, preserving arrival order. name is
// case-folded to uppercase for storage and lookup.
func (p *Parameters) Add(name string, values ...string) {
	upper := strings.ToUpper(name)
	for i := range p.entries {
		if p.entries[i].name == upper {
			p.entries[i].values = append(p.entries[i].values, values...)
			return
		}
	}
	p.entries = append(p.entries, paramEntry{name: upper, values: values})
}

// AddBare appends a vCard 2.1 bare parameter token (e.g. "WORK").
func (p *Parameters) AddBare(token string) {
	p.bare = append(p.bare, token)
}

// Values returns every value recorded under name (case-insensitive), or nil.
func (p *Parameters) Values(name string) []string {
	upper := strings.ToUpper(name)
	for _, e := range p.entries {
		if e.name == upper {
			return e.values
		}
	}
	return nil
}

// First returns the first value under name, and whether it was present.
func (p *Parameters) First(name string) (string, bool) {
	vs := p.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Names returns every parameter name present, in arrival order.
func (p *Parameters) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.name
	}
	return names
}

// BareTokens returns the vCard 2.1 bare parameter tokens, in arrival order.
func (p *Parameters) BareTokens() []string {
	return p.bare
}

// TypeValues returns the concatenation of TYPE= values and the lowercased
// bare tokens that are known type tokens (spec §4.D).
func (p *Parameters) TypeValues() []string {
	var out []string
	out = append(out, p.Values("TYPE")...)
	for _, tok := range p.bare {
		if knownTypeTokens[strings.ToUpper(tok)] {
			out = append(out, strings.ToLower(tok))
		}
	}
	return out
}

// Pref returns the PREF= integer value, if present and well-formed.
func (p *Parameters) Pref() (int, bool) {
	v, ok := p.First("PREF")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsPreferred reports whether this parameter set marks its owning entry as
// preferred: PREF <= 1, or a type token equal to "pref" (case-insensitive).
func (p *Parameters) IsPreferred() bool {
	if n, ok := p.Pref(); ok && n <= 1 {
		return true
	}
	for _, tok := range p.bare {
		if strings.EqualFold(tok, "pref") {
			return true
		}
	}
	for _, v := range p.Values("TYPE") {
		if strings.EqualFold(v, "pref") {
			return true
		}
	}
	return false
}

func (p *Parameters) value(name string) (string, bool) { return p.First(name) }

// Value returns the VALUE= parameter.
func (p *Parameters) Value() (string, bool) { return p.value("VALUE") }

// Encoding returns the ENCODING= parameter.
func (p *Parameters) Encoding() (string, bool) { return p.value("ENCODING") }

// Charset returns the CHARSET= parameter.
func (p *Parameters) Charset() (string, bool) { return p.value("CHARSET") }

// Language returns the LANGUAGE= parameter.
func (p *Parameters) Language() (string, bool) { return p.value("LANGUAGE") }

// MediaType returns the MEDIATYPE= parameter.
func (p *Parameters) MediaType() (string, bool) { return p.value("MEDIATYPE") }

// AltID returns the ALTID= parameter.
func (p *Parameters) AltID() (string, bool) { return p.value("ALTID") }

// SortAs returns the SORT-AS= parameter.
func (p *Parameters) SortAs() (string, bool) { return p.value("SORT-AS") }

// Geo returns the GEO= parameter (used on ADR in vCard 4.0).
func (p *Parameters) Geo() (string, bool) { return p.value("GEO") }

// TZ returns the TZ= parameter (used on ADR in vCard 4.0).
func (p *Parameters) TZ() (string, bool) { return p.value("TZ") }

// Label returns the LABEL= parameter.
func (p *Parameters) Label() (string, bool) { return p.value("LABEL") }

// Clone returns a deep copy, since every aggregate owns its children
// exclusively (spec §3 lifecycle invariant).
func (p *Parameters) Clone() *Parameters {
	if p == nil {
		return NewParameters()
	}
	out := &Parameters{
		entries: make([]paramEntry, len(p.entries)),
		bare:    append([]string(nil), p.bare...),
	}
	for i, e := range p.entries {
		out.entries[i] = paramEntry{name: e.name, values: append([]string(nil), e.values...)}
	}
	return out
}
