package vcard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// XCardFormatter converts between VCard and the xCard XML representation
// (RFC 6351). The parser is regex-structural by design (spec §4.I / design
// note §9): it locates each <vcard> span and extracts the closed set of
// supported properties through scoped patterns rather than a general XML
// reader, on the premise that xCard output is well-formed and xCard input
// is trusted to be too.
type XCardFormatter struct{}

// NewXCardFormatter returns an XCardFormatter.
func NewXCardFormatter() *XCardFormatter { return &XCardFormatter{} }

const xcardNamespace = "urn:ietf:params:xml:ns:vcard-4.0"

// ToXML renders v as an xCard document under a single <vcards> root. pretty
// indents each element on its own line; otherwise the document is emitted
// as one unbroken stream.
func (f *XCardFormatter) ToXML(v *VCard, pretty bool) string {
	var b strings.Builder
	nl, indent := "", ""
	if pretty {
		nl = "\n"
		indent = "  "
	}

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + nl)
	b.WriteString(`<vcards xmlns="` + xcardNamespace + `">` + nl)
	b.WriteString(indent + "<vcard>" + nl)

	elem := func(name, typ, value string) {
		b.WriteString(indent + indent + "<" + name + "><" + typ + ">" + xmlEscape(value) + "</" + typ + "></" + name + ">" + nl)
	}
	elemParams := func(name, typ, value string, params []paramPiece) {
		b.WriteString(indent + indent + "<" + name + ">")
		if len(params) > 0 {
			b.WriteString("<parameters>")
			for _, p := range params {
				for _, pv := range p.Values {
					switch strings.ToUpper(p.Name) {
					case "TYPE":
						b.WriteString("<type><text>" + xmlEscape(strings.ToLower(pv)) + "</text></type>")
					case "PREF":
						b.WriteString("<pref><integer>" + xmlEscape(pv) + "</integer></pref>")
					}
				}
			}
			b.WriteString("</parameters>")
		}
		b.WriteString("<" + typ + ">" + xmlEscape(value) + "</" + typ + "></" + name + ">" + nl)
	}

	elem("version", "text", v.Version.String())
	elem("fn", "text", v.FormattedName)

	if v.Name != nil && v.Name.IsStructured() {
		n := v.Name
		b.WriteString(indent + indent + "<n>")
		b.WriteString("<surname>" + xmlEscape(n.Family) + "</surname>")
		b.WriteString("<given>" + xmlEscape(n.Given) + "</given>")
		b.WriteString("<additional>" + xmlEscape(n.Additional) + "</additional>")
		b.WriteString("<prefix>" + xmlEscape(strings.Join(n.Prefixes, ",")) + "</prefix>")
		b.WriteString("<suffix>" + xmlEscape(strings.Join(n.Suffixes, ",")) + "</suffix>")
		b.WriteString("</n>" + nl)
	} else if v.Name != nil {
		elem("n", "text", v.Name.RawValue())
	}

	for _, nick := range v.Nicknames {
		elem("nickname", "text", nick)
	}

	if v.Organization != nil && v.Organization.IsStructured() {
		o := v.Organization
		b.WriteString(indent + indent + "<org><text>" + xmlEscape(o.Name) + "</text>")
		for _, u := range o.Units {
			b.WriteString("<text>" + xmlEscape(u) + "</text>")
		}
		b.WriteString("</org>" + nl)
	} else if v.Organization != nil {
		elem("org", "text", v.Organization.RawValue())
	}

	for _, a := range v.Addresses {
		params := typeParamPieces(a.Types, a.Pref)
		b.WriteString(indent + indent + "<adr>")
		if len(params) > 0 {
			b.WriteString(paramsXML(params))
		}
		if a.IsStructured() {
			b.WriteString("<pobox>" + xmlEscape(a.POBox) + "</pobox>")
			b.WriteString("<ext>" + xmlEscape(a.Extended) + "</ext>")
			b.WriteString("<street>" + xmlEscape(a.Street) + "</street>")
			b.WriteString("<locality>" + xmlEscape(a.City) + "</locality>")
			b.WriteString("<region>" + xmlEscape(a.Region) + "</region>")
			b.WriteString("<code>" + xmlEscape(a.PostalCode) + "</code>")
			b.WriteString("<country>" + xmlEscape(a.Country) + "</country>")
		} else {
			b.WriteString("<text>" + xmlEscape(a.RawValue()) + "</text>")
		}
		b.WriteString("</adr>" + nl)
	}

	for _, t := range v.Telephones {
		value := "tel:" + t.Number
		if t.Ext != "" {
			value += ";ext=" + t.Ext
		}
		elemParams("tel", "uri", value, typeParamPieces(t.Types, t.Pref))
	}
	for _, e := range v.Emails {
		elemParams("email", "text", e.Address, typeParamPieces(e.Types, e.Pref))
	}
	for _, im := range v.IMPPs {
		elemParams("impp", "uri", im.URI, typeParamPieces(im.Types, im.Pref))
	}
	for _, u := range v.URLs {
		elemParams("url", "uri", u.Value, typeParamPieces(u.Types, u.Pref))
	}
	for _, l := range v.Languages {
		elemParams("lang", "language-tag", l.Tag, typeParamPieces(nil, l.Pref))
	}
	for _, r := range v.Related {
		elemParams("related", "uri", r.Value, typeParamPieces(r.Types, r.Pref))
	}

	if v.Birthday != nil {
		elem("bday", "date-and-or-time", v.Birthday.ToDateTimeString())
	}
	if v.Anniversary != nil {
		elem("anniversary", "date-and-or-time", v.Anniversary.ToDateTimeString())
	}
	if v.Revision != nil {
		elem("rev", "timestamp", v.Revision.ToDateTimeString())
	}
	if v.Gender != nil {
		elem("gender", "text", v.Gender.ToValue())
	}
	if v.Geo != nil {
		elem("geo", "uri", v.Geo.ToURI())
	}
	if v.Kind != nil {
		elem("kind", "text", v.Kind.String())
	}
	for _, m := range v.Members {
		elem("member", "uri", m)
	}
	for _, c := range v.Categories {
		elem("categories", "text", c)
	}
	if v.Timezone != "" {
		elem("tz", "text", v.Timezone)
	}
	if v.Title != "" {
		elem("title", "text", v.Title)
	}
	if v.Role != "" {
		elem("role", "text", v.Role)
	}
	if v.Note != "" {
		elem("note", "text", v.Note)
	}
	if v.UID != "" {
		elem("uid", "text", v.UID)
	}
	if v.ProductID != "" {
		elem("prodid", "text", v.ProductID)
	}
	for _, src := range v.Sources {
		elem("source", "uri", src)
	}
	for _, ph := range v.Photos {
		f.writeBinary(&b, indent+indent, "photo", ph.Data, nl)
	}
	if v.Logo != nil {
		f.writeBinary(&b, indent+indent, "logo", v.Logo.Data, nl)
	}
	if v.Sound != nil {
		f.writeBinary(&b, indent+indent, "sound", v.Sound.Data, nl)
	}
	for _, k := range v.Keys {
		f.writeBinary(&b, indent+indent, "key", k.Data, nl)
	}

	b.WriteString(indent + "</vcard>" + nl)
	b.WriteString("</vcards>" + nl)
	return b.String()
}

func (f *XCardFormatter) writeBinary(b *strings.Builder, indent, name string, data BinaryData, nl string) {
	if data.IsURI() {
		b.WriteString(indent + "<" + name + "><uri>" + xmlEscape(data.URI()) + "</uri></" + name + ">" + nl)
		return
	}
	uri, _ := data.DataURI()
	b.WriteString(indent + "<" + name + "><uri>" + xmlEscape(uri) + "</uri></" + name + ">" + nl)
}

func typeParamPieces(types []string, pref int) []paramPiece {
	var pieces []paramPiece
	if len(types) > 0 {
		pieces = append(pieces, paramPiece{Name: "TYPE", Values: types})
	}
	if pref > 0 {
		pieces = append(pieces, paramPiece{Name: "PREF", Values: []string{strconv.Itoa(pref)}})
	}
	return pieces
}

func paramsXML(params []paramPiece) string {
	var b strings.Builder
	b.WriteString("<parameters>")
	for _, p := range params {
		for _, v := range p.Values {
			switch strings.ToUpper(p.Name) {
			case "TYPE":
				b.WriteString("<type><text>" + xmlEscape(strings.ToLower(v)) + "</text></type>")
			case "PREF":
				b.WriteString("<pref><integer>" + xmlEscape(v) + "</integer></pref>")
			}
		}
	}
	b.WriteString("</parameters>")
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string { return xmlEscaper.Replace(s) }

var (
	vcardSpanRe   = regexp.MustCompile(`(?s)<vcard>(.*?)</vcard>`)
	parametersRe  = regexp.MustCompile(`(?s)<parameters>.*?</parameters>`)
	leafInBlockRe = regexp.MustCompile(`(?s)<(\w[\w-]*)>(.*?)</\w[\w-]*>`)
	leafRe        = func(name string) *regexp.Regexp {
		return regexp.MustCompile(`(?s)<` + name + `>\s*(?:<parameters>.*?</parameters>)?\s*<(\w[\w-]*)>(.*?)</\w[\w-]*>\s*</` + name + `>`)
	}
	typeParamRe = regexp.MustCompile(`(?s)<type><text>(.*?)</text></type>`)
	prefParamRe = regexp.MustCompile(`(?s)<pref><integer>(.*?)</integer></pref>`)
)

// extractLeafInBlock finds the first typed leaf (e.g. "<uri>..</uri>") in
// block, after stripping any <parameters> subtree, and returns its value.
func extractLeafInBlock(block string) (value string, ok bool) {
	stripped := parametersRe.ReplaceAllString(block, "")
	m := leafInBlockRe.FindStringSubmatch(stripped)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// FromXML parses the first <vcard> element in s into a VCard.
func (f *XCardFormatter) FromXML(s string) (*VCard, error) {
	m := vcardSpanRe.FindStringSubmatch(s)
	if m == nil {
		return nil, &FormatError{Kind: ErrNotVCard, Detail: "no <vcard> element found"}
	}
	body := m[1]
	card := New()

	if _, val, ok := extractLeaf(body, "version"); ok {
		if ver, ok := ParseVersion(val); ok {
			card.Version = ver
		}
	}
	fn, haveFN := extractText(body, "fn")
	card.FormattedName = fn

	if nameBlock, ok := extractBlock(body, "n"); ok {
		if strings.Contains(nameBlock, "<text>") {
			n := NewRawName(xmlUnescape(extractChild(nameBlock, "text")))
			card.Name = &n
		} else {
			n := NewStructuredName(
				xmlUnescape(extractChild(nameBlock, "surname")),
				xmlUnescape(extractChild(nameBlock, "given")),
				xmlUnescape(extractChild(nameBlock, "additional")),
				splitNonEmpty(xmlUnescape(extractChild(nameBlock, "prefix")), ","),
				splitNonEmpty(xmlUnescape(extractChild(nameBlock, "suffix")), ","),
			)
			card.Name = &n
		}
	}

	for _, nick := range extractAllText(body, "nickname") {
		card.Nicknames = append(card.Nicknames, nick)
	}

	if orgBlock, ok := extractBlock(body, "org"); ok {
		texts := extractAllLeafValues(orgBlock, "text")
		if len(texts) > 0 {
			card.Organization = &Organization{Name: texts[0], Units: texts[1:]}
		}
	}

	for _, adrBlock := range extractAllBlocks(body, "adr") {
		a := Address{Params: NewParameters()}
		a.Types, a.Pref = extractParamsFromBlock(adrBlock)
		if strings.Contains(adrBlock, "<pobox>") {
			a.POBox = xmlUnescape(extractChild(adrBlock, "pobox"))
			a.Extended = xmlUnescape(extractChild(adrBlock, "ext"))
			a.Street = xmlUnescape(extractChild(adrBlock, "street"))
			a.City = xmlUnescape(extractChild(adrBlock, "locality"))
			a.Region = xmlUnescape(extractChild(adrBlock, "region"))
			a.PostalCode = xmlUnescape(extractChild(adrBlock, "code"))
			a.Country = xmlUnescape(extractChild(adrBlock, "country"))
		} else {
			a.isRaw = true
			a.raw = xmlUnescape(extractChild(adrBlock, "text"))
		}
		card.Addresses = append(card.Addresses, a)
	}

	for _, telBlock := range extractAllBlocks(body, "tel") {
		rawValue, _ := extractLeafInBlock(telBlock)
		value := xmlUnescape(rawValue)
		t := Telephone{Number: strings.TrimPrefix(value, "tel:"), Params: NewParameters()}
		if idx := strings.Index(t.Number, ";ext="); idx >= 0 {
			t.Ext = t.Number[idx+len(";ext="):]
			t.Number = t.Number[:idx]
		}
		t.Types, t.Pref = extractParamsFromBlock(telBlock)
		card.Telephones = append(card.Telephones, t)
	}
	for _, emBlock := range extractAllBlocks(body, "email") {
		rawValue, _ := extractLeafInBlock(emBlock)
		e := Email{Address: xmlUnescape(rawValue), Params: NewParameters()}
		e.Types, e.Pref = extractParamsFromBlock(emBlock)
		card.Emails = append(card.Emails, e)
	}
	for _, urlBlock := range extractAllBlocks(body, "url") {
		rawValue, _ := extractLeafInBlock(urlBlock)
		u := URL{Value: xmlUnescape(rawValue), Params: NewParameters()}
		u.Types, u.Pref = extractParamsFromBlock(urlBlock)
		card.URLs = append(card.URLs, u)
	}

	if val, ok := extractText(body, "bday"); ok {
		if d, ok := TryParseDate(val); ok {
			card.Birthday = &d
		}
	}
	if val, ok := extractText(body, "anniversary"); ok {
		if d, ok := TryParseDate(val); ok {
			card.Anniversary = &d
		}
	}
	if val, ok := extractText(body, "rev"); ok {
		if d, ok := TryParseDate(val); ok {
			card.Revision = &d
		}
	}
	if val, ok := extractText(body, "gender"); ok {
		g := ParseGender(val)
		card.Gender = &g
	}
	if val, ok := extractLeafValue(body, "geo"); ok {
		if g, ok := ParseGeo(val); ok {
			card.Geo = &g
		}
	}
	if val, ok := extractText(body, "kind"); ok {
		if k, ok := ParseKind(val); ok {
			card.Kind = &k
		}
	}
	for _, m := range extractAllText(body, "member") {
		card.Members = append(card.Members, m)
	}
	card.Categories = append(card.Categories, extractAllText(body, "categories")...)

	if val, ok := extractText(body, "tz"); ok {
		card.Timezone = val
	}
	if val, ok := extractText(body, "title"); ok {
		card.Title = val
	}
	if val, ok := extractText(body, "role"); ok {
		card.Role = val
	}
	if val, ok := extractText(body, "note"); ok {
		card.Note = val
	}
	if val, ok := extractText(body, "uid"); ok {
		card.UID = val
	}
	if val, ok := extractText(body, "prodid"); ok {
		card.ProductID = val
	}
	card.Sources = append(card.Sources, extractAllText(body, "source")...)

	if !haveFN {
		return nil, &FormatError{Kind: ErrMissingProperties, Detail: "fn is required"}
	}
	return card, nil
}

func extractLeaf(s, name string) (typ, value string, ok bool) {
	m := leafRe(name).FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func extractLeafValue(s, name string) (string, bool) {
	_, val, ok := extractLeaf(s, name)
	return xmlUnescape(val), ok
}

func extractText(s, name string) (string, bool) {
	return extractLeafValue(s, name)
}

func extractAllText(s, name string) []string {
	re := regexp.MustCompile(`(?s)<` + name + `>\s*<\w[\w-]*>(.*?)</\w[\w-]*>\s*</` + name + `>`)
	matches := re.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, xmlUnescape(m[1]))
	}
	return out
}

func extractBlock(s, name string) (string, bool) {
	re := regexp.MustCompile(`(?s)<` + name + `>(.*?)</` + name + `>`)
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractAllBlocks(s, name string) []string {
	re := regexp.MustCompile(`(?s)<` + name + `>(.*?)</` + name + `>`)
	matches := re.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func extractChild(s, name string) string {
	re := regexp.MustCompile(`(?s)<` + name + `>(.*?)</` + name + `>`)
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractAllLeafValues(s, leafType string) []string {
	re := regexp.MustCompile(`(?s)<` + leafType + `>(.*?)</` + leafType + `>`)
	matches := re.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, xmlUnescape(m[1]))
	}
	return out
}

func extractParamsFromBlock(block string) (types []string, pref int) {
	paramsBlock, ok := extractBlock(block, "parameters")
	if !ok {
		return nil, 0
	}
	for _, m := range typeParamRe.FindAllStringSubmatch(paramsBlock, -1) {
		types = append(types, xmlUnescape(m[1]))
	}
	if m := prefParamRe.FindStringSubmatch(paramsBlock); m != nil {
		fmt.Sscanf(m[1], "%d", &pref)
	}
	return types, pref
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func xmlUnescape(s string) string { return xmlUnescaper.Replace(s) }
