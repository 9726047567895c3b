package vcard

import (
	"encoding/base64"
	"strings"

	"github.com/zedaapi/vcardcore/internal/escape"
	"github.com/zedaapi/vcardcore/internal/lineframer"
)

// Generator serializes VCard values to the canonical textual vCard form.
// It is stateless after construction and safe for concurrent use on
// distinct VCard values (spec §5).
type Generator struct {
	fold             bool
	useModernTypes   bool
	productID        string
}

// NewGenerator constructs a Generator. fold enables RFC 2425 §5.8.1 line
// folding on output; useModernTypes is stored but does not change the
// output: V21 type parameters are always emitted as bare tokens; productID,
// if non-empty, is emitted as PRODID.
func NewGenerator(fold, useModernTypes bool, productID string) *Generator {
	return &Generator{fold: fold, useModernTypes: useModernTypes, productID: productID}
}

// Generate serializes v. If version is nil, v.Version is used.
func (g *Generator) Generate(v *VCard, version *Version) (string, error) {
	lines, err := g.logicalLines(v, g.resolveVersion(v, version))
	if err != nil {
		return "", err
	}
	if g.fold {
		return lineframer.Fold(lines) + "\r\n", nil
	}
	return strings.Join(lines, "\r\n") + "\r\n", nil
}

// GenerateAll serializes every VCard in cards, one BEGIN/END block per
// card, in order.
func (g *Generator) GenerateAll(cards []*VCard, version *Version) (string, error) {
	var all []string
	for _, v := range cards {
		lines, err := g.logicalLines(v, g.resolveVersion(v, version))
		if err != nil {
			return "", err
		}
		all = append(all, lines...)
	}
	if g.fold {
		return lineframer.Fold(all) + "\r\n", nil
	}
	return strings.Join(all, "\r\n") + "\r\n", nil
}

func (g *Generator) resolveVersion(v *VCard, override *Version) Version {
	if override != nil {
		return *override
	}
	return v.Version
}

func (g *Generator) logicalLines(v *VCard, version Version) ([]string, error) {
	if strings.TrimSpace(v.FormattedName) == "" {
		return nil, &GenerateError{Kind: ErrFNRequired}
	}

	s := newEmitStrategy(version)
	legacyBare := version == V21 && !g.useModernTypes

	lines := []string{"BEGIN:VCARD", "VERSION:" + version.String()}
	lines = append(lines, line("", "FN", nil, escapeOrRaw(v.FormattedName, version)))

	if v.Name != nil {
		lines = append(lines, line("", "N", nil, v.Name.ToValue()))
	}
	if len(v.Nicknames) > 0 {
		lines = append(lines, line("", "NICKNAME", nil, joinEscaped(v.Nicknames, ',', version)))
	}

	for _, ph := range v.Photos {
		lines = append(lines, g.emitBinary(s, "PHOTO", ph, legacyBare))
	}
	if v.Logo != nil {
		lines = append(lines, g.emitBinary(s, "LOGO", *v.Logo, legacyBare))
	}
	if v.Sound != nil {
		lines = append(lines, g.emitBinary(s, "SOUND", *v.Sound, legacyBare))
	}
	for _, k := range v.Keys {
		lines = append(lines, g.emitBinary(s, "KEY", k, legacyBare))
	}

	if v.Birthday != nil {
		lines = append(lines, line("", "BDAY", nil, v.Birthday.ToDateTimeString()))
	}
	if v.Anniversary != nil {
		lines = append(lines, line("", "ANNIVERSARY", nil, v.Anniversary.ToDateTimeString()))
	}
	if v.Revision != nil {
		lines = append(lines, line("", "REV", nil, v.Revision.ToDateTimeString()))
	}
	if v.Gender != nil {
		lines = append(lines, line("", "GENDER", nil, v.Gender.ToValue()))
	}
	if v.Geo != nil {
		lines = append(lines, line("", "GEO", nil, s.geoValue(*v.Geo)))
	}
	if v.Organization != nil {
		lines = append(lines, line("", "ORG", nil, v.Organization.ToValue()))
	}
	if v.Kind != nil {
		lines = append(lines, line("", "KIND", nil, v.Kind.String()))
	}

	for _, a := range v.Addresses {
		lines = append(lines, g.emitAddress(s, a, legacyBare, version))
	}
	for _, t := range v.Telephones {
		lines = append(lines, g.emitTelephone(s, t, legacyBare))
	}
	for _, e := range v.Emails {
		lines = append(lines, g.emitSimple(s, "EMAIL", e.Address, e.Types, e.Pref, legacyBare, version))
	}
	for _, im := range v.IMPPs {
		lines = append(lines, g.emitSimple(s, "IMPP", im.URI, im.Types, im.Pref, legacyBare, version))
	}
	for _, u := range v.URLs {
		lines = append(lines, g.emitSimple(s, "URL", u.Value, u.Types, u.Pref, legacyBare, version))
	}
	for _, l := range v.Languages {
		lines = append(lines, g.emitSimple(s, "LANG", l.Tag, nil, l.Pref, legacyBare, version))
	}
	for _, r := range v.Related {
		lines = append(lines, g.emitSimple(s, "RELATED", r.Value, r.Types, r.Pref, legacyBare, version))
	}

	for _, m := range v.Members {
		lines = append(lines, line("", "MEMBER", nil, m))
	}
	for _, x := range v.XML {
		lines = append(lines, line("", "XML", nil, x))
	}
	for _, src := range v.Sources {
		lines = append(lines, line("", "SOURCE", nil, src))
	}
	for _, fb := range v.FreeBusyURLs {
		lines = append(lines, line("", "FBURL", nil, fb))
	}
	for _, cu := range v.CalendarURLs {
		lines = append(lines, line("", "CALURI", nil, cu))
	}
	for _, cau := range v.CalendarAddressURLs {
		lines = append(lines, line("", "CALADRURI", nil, cau))
	}
	if len(v.Categories) > 0 {
		lines = append(lines, line("", "CATEGORIES", nil, joinEscaped(v.Categories, ',', version)))
	}

	if v.Timezone != "" {
		lines = append(lines, line("", "TZ", nil, v.Timezone))
	}
	if v.Title != "" {
		lines = append(lines, line("", "TITLE", nil, escapeOrRaw(v.Title, version)))
	}
	if v.Role != "" {
		lines = append(lines, line("", "ROLE", nil, escapeOrRaw(v.Role, version)))
	}
	if v.Note != "" {
		lines = append(lines, line("", "NOTE", nil, escapeOrRaw(v.Note, version)))
	}
	if v.UID != "" {
		lines = append(lines, line("", "UID", nil, v.UID))
	}
	if v.ProductID != "" {
		lines = append(lines, line("", "PRODID", nil, v.ProductID))
	} else if g.productID != "" {
		lines = append(lines, line("", "PRODID", nil, g.productID))
	}

	for _, ext := range v.ExtendedProperties {
		pieces := paramsToPieces(ext.Params)
		lines = append(lines, line("", strings.ToUpper(ext.Name), pieces, ext.Value))
	}

	lines = append(lines, "END:VCARD")
	return lines, nil
}

func (g *Generator) emitBinary(s emitStrategy, name string, ph Photo, legacyBare bool) string {
	if ph.Data.IsURI() {
		return line("", name, nil, ph.Data.URI())
	}
	if s.version == V40 {
		uri, _ := ph.Data.DataURI()
		return line("", name, nil, uri)
	}
	encoded := base64Encode(ph.Data.Bytes())
	return line("", name, s.binaryParams(ph.Data.MediaType()), encoded)
}

func (g *Generator) emitTelephone(s emitStrategy, t Telephone, legacyBare bool) string {
	value, extra := s.telValue(t.Number, t.Ext)
	pieces := s.typeParams(t.Types)
	pieces = append(pieces, s.prefParam(t.Pref)...)
	pieces = append(pieces, extra...)
	return line("", "TEL", pieces, value)
}

func (g *Generator) emitSimple(s emitStrategy, name, value string, types []string, pref int, legacyBare bool, version Version) string {
	pieces := s.typeParams(types)
	pieces = append(pieces, s.prefParam(pref)...)
	return line("", name, pieces, escapeOrRaw(value, version))
}

func (g *Generator) emitAddress(s emitStrategy, a Address, legacyBare bool, version Version) string {
	pieces := s.typeParams(a.Types)
	pieces = append(pieces, s.prefParam(a.Pref)...)
	if a.Params != nil {
		if label, ok := a.Params.Label(); ok {
			pieces = append(pieces, paramPiece{Name: "LABEL", Values: []string{label}})
		}
	}
	if version == V40 && a.Params != nil {
		if geo, ok := a.Params.Geo(); ok {
			pieces = append(pieces, paramPiece{Name: "GEO", Values: []string{geo}})
		}
		if tz, ok := a.Params.TZ(); ok {
			pieces = append(pieces, paramPiece{Name: "TZ", Values: []string{tz}})
		}
	}
	return line("", "ADR", pieces, a.ToValue())
}

// escapeOrRaw escapes a scalar string value for V30/V40; V21 values are not
// backslash-escaped on input, so they are not re-escaped on output either,
// matching the asymmetric decode in properties.go.
func escapeOrRaw(s string, version Version) string {
	if version == V21 {
		return s
	}
	return escape.Escape(s)
}

func joinEscaped(values []string, delim byte, version Version) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeOrRaw(v, version)
	}
	return escape.JoinValues(escaped, delim)
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func paramsToPieces(p *Parameters) []paramPiece {
	if p == nil {
		return nil
	}
	var pieces []paramPiece
	for _, name := range p.Names() {
		pieces = append(pieces, paramPiece{Name: name, Values: p.Values(name)})
	}
	for _, tok := range p.BareTokens() {
		pieces = append(pieces, paramPiece{Values: []string{tok}})
	}
	return pieces
}

// line renders one unfolded logical content line: NAME[;param...]:value,
// uppercasing the property name and parameter names per spec §6.
func line(group, name string, params []paramPiece, value string) string {
	var b strings.Builder
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(strings.ToUpper(name))
	for _, p := range params {
		b.WriteByte(';')
		if p.Name != "" {
			b.WriteString(strings.ToUpper(p.Name))
			b.WriteByte('=')
		}
		for i, v := range p.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteParamValueIfNeeded(v))
		}
	}
	b.WriteByte(':')
	b.WriteString(value)
	return b.String()
}

// quoteParamValueIfNeeded wraps a parameter value in a vCard quoted-string
// when it contains ':', ';', ',', or a newline (spec §4.G). Unlike a Go
// string literal, a vCard quoted-string does not backslash-escape its
// contents: QSAFE-CHAR already permits ':', ';', ',', and '\' unescaped
// inside DQUOTE, so the value is wrapped as-is.
func quoteParamValueIfNeeded(v string) string {
	if strings.ContainsAny(v, ":;,\n") {
		return `"` + v + `"`
	}
	return v
}
