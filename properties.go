package vcard

import (
	"encoding/base64"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/zedaapi/vcardcore/internal/escape"
)

// assemble runs the property-dispatcher second pass (spec §4.F) over one
// accumulated BEGIN/END:VCARD block.
func (p *Parser) assemble(lines []rawLine) (*VCard, *multierror.Error) {
	var diag *multierror.Error
	card := New()

	version := DefaultVersion
	for _, l := range lines {
		if l.upper == "VERSION" {
			v, ok := ParseVersion(strings.TrimSpace(l.value))
			if !ok {
				diag = multierror.Append(diag, &ParseError{Kind: ErrUnknownVersion, Detail: l.value})
				if !p.lenient {
					return nil, diag
				}
			}
			version = v
			break
		}
	}
	card.Version = version

	for _, l := range lines {
		if p.preserveRaw {
			card.RawProperties = append(card.RawProperties, RawProperty{
				Group: l.group, Name: l.name, Params: l.params.Clone(), Value: l.value,
			})
		}

		decoded, decErr := p.decodeValue(l, version)
		if decErr != nil {
			diag = multierror.Append(diag, decErr)
		}

		if err := p.dispatch(card, l, decoded); err != nil {
			diag = multierror.Append(diag, err)
		}
	}

	return card, diag
}

// decodeValue applies QUOTED-PRINTABLE decoding (vCard 2.1) and, for
// V30/V40, backslash unescaping, per spec §4.F step 2.
func (p *Parser) decodeValue(l rawLine, version Version) (string, error) {
	value := l.value
	var firstErr error

	if enc, ok := l.params.Encoding(); ok && strings.EqualFold(enc, "QUOTED-PRINTABLE") {
		decoded, err := escape.DecodeQuotedPrintable(value)
		if err != nil {
			firstErr = err
		}
		value = decoded
	}

	if version == V30 || version == V40 {
		value = escape.Unescape(value)
	}

	return value, firstErr
}

// dispatch routes a decoded property value to its per-property handler
// (spec §4.F table). Unknown "X-" names accumulate in extended_properties;
// other unknowns are ignored.
func (p *Parser) dispatch(card *VCard, l rawLine, value string) error {
	switch l.upper {
	case "VERSION", "BEGIN", "END":
		// handled elsewhere / structural
	case "FN":
		card.FormattedName = value
	case "N":
		n := parseNameValue(value)
		card.Name = &n
	case "NICKNAME":
		card.Nicknames = append(card.Nicknames, splitTrimmed(value, ',')...)
	case "CATEGORIES":
		card.Categories = append(card.Categories, splitTrimmed(value, ',')...)
	case "ADR":
		a := parseAddressValue(value)
		a.Params = l.params.Clone()
		a.Types = l.params.TypeValues()
		if pref, ok := l.params.Pref(); ok {
			a.Pref = pref
		}
		card.Addresses = append(card.Addresses, a)
	case "ORG":
		o := parseOrganizationValue(value)
		card.Organization = &o
	case "TEL":
		card.Telephones = append(card.Telephones, parseTelephone(value, l.params))
	case "EMAIL":
		card.Emails = append(card.Emails, parseEmail(value, l.params))
	case "IMPP":
		card.IMPPs = append(card.IMPPs, IMPP{
			URI: value, Types: l.params.TypeValues(), Pref: prefOf(l.params), Params: l.params.Clone(),
		})
	case "BDAY":
		if d, ok := TryParseDate(value); ok {
			card.Birthday = &d
		}
	case "ANNIVERSARY":
		if d, ok := TryParseDate(value); ok {
			card.Anniversary = &d
		}
	case "REV":
		if d, ok := TryParseDate(value); ok {
			card.Revision = &d
		}
	case "GENDER":
		g := ParseGender(value)
		card.Gender = &g
	case "GEO":
		if g, ok := ParseGeo(value); ok {
			card.Geo = &g
		}
	case "PHOTO":
		card.Photos = append(card.Photos, parseBinaryProperty(value, l.params))
	case "LOGO":
		b := parseBinaryProperty(value, l.params)
		card.Logo = &b
	case "SOUND":
		b := parseBinaryProperty(value, l.params)
		card.Sound = &b
	case "KEY":
		card.Keys = append(card.Keys, parseBinaryProperty(value, l.params))
	case "LANG":
		card.Languages = append(card.Languages, LanguagePref{
			Tag: value, Pref: prefOf(l.params), Params: l.params.Clone(),
		})
	case "KIND":
		if k, ok := ParseKind(value); ok {
			card.Kind = &k
		}
	case "RELATED":
		rel := Related{Value: value, Types: l.params.TypeValues(), Pref: prefOf(l.params), Params: l.params.Clone()}
		if types := l.params.Values("TYPE"); len(types) > 0 {
			rel.RelationType = types[0]
		}
		card.Related = append(card.Related, rel)
	case "MEMBER":
		card.Members = append(card.Members, value)
	case "URL":
		card.URLs = append(card.URLs, URL{Value: value, Types: l.params.TypeValues(), Pref: prefOf(l.params), Params: l.params.Clone()})
	case "FBURL":
		card.FreeBusyURLs = append(card.FreeBusyURLs, value)
	case "CALURI":
		card.CalendarURLs = append(card.CalendarURLs, value)
	case "CALADRURI":
		card.CalendarAddressURLs = append(card.CalendarAddressURLs, value)
	case "UID":
		card.UID = value
	case "SOURCE":
		card.Sources = append(card.Sources, value)
	case "XML":
		card.XML = append(card.XML, value)
	case "TZ":
		card.Timezone = value
	case "TITLE":
		card.Title = value
	case "ROLE":
		card.Role = value
	case "NOTE":
		card.Note = value
	case "PRODID":
		card.ProductID = value
	default:
		if strings.HasPrefix(l.upper, "X-") {
			card.ExtendedProperties = append(card.ExtendedProperties, ExtendedProperty{
				Name: l.name, Params: l.params.Clone(), Value: value,
			})
		}
		// other unknown properties are ignored per spec §4.F
	}
	return nil
}

func prefOf(params *Parameters) int {
	if n, ok := params.Pref(); ok {
		return n
	}
	return 0
}

func splitTrimmed(value string, delim byte) []string {
	var out []string
	for _, part := range escape.SplitValue(value, delim) {
		trimmed := strings.TrimSpace(escape.Unescape(part))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func parseNameValue(value string) StructuredName {
	if !strings.Contains(value, ";") {
		return NewRawName(value)
	}
	parts := escape.SplitValue(value, ';')
	for i := range parts {
		parts[i] = escape.Unescape(parts[i])
	}
	return fromNameComponents(parts)
}

func parseAddressValue(value string) Address {
	if !strings.Contains(value, ";") {
		return NewRawAddress(value)
	}
	parts := escape.SplitValue(value, ';')
	for i := range parts {
		parts[i] = escape.Unescape(parts[i])
	}
	return fromAddressComponents(parts)
}

func parseOrganizationValue(value string) Organization {
	if !strings.Contains(value, ";") {
		return NewRawOrganization(value)
	}
	parts := escape.SplitValue(value, ';')
	for i := range parts {
		parts[i] = escape.Unescape(parts[i])
	}
	return fromOrganizationComponents(parts)
}

func parseTelephone(value string, params *Parameters) Telephone {
	t := Telephone{Number: value, Types: params.TypeValues(), Pref: prefOf(params), Params: params.Clone()}
	if strings.HasPrefix(value, "tel:") {
		rest := strings.TrimPrefix(value, "tel:")
		if idx := strings.Index(rest, ";ext="); idx >= 0 {
			t.Number = rest[:idx]
			t.Ext = rest[idx+len(";ext="):]
		} else {
			t.Number = rest
		}
	}
	return t
}

func parseEmail(value string, params *Parameters) Email {
	v := strings.TrimPrefix(value, "mailto:")
	return Email{Address: v, Types: params.TypeValues(), Pref: prefOf(params), Params: params.Clone()}
}

// parseBinaryProperty decodes a PHOTO/LOGO/SOUND/KEY value per spec §4.F:
// a data: URI decodes inline; ENCODING=BASE64/b or VALUE=binary decodes the
// raw value as base64 with whitespace stripped; otherwise it is a URI.
// Malformed base64 falls back to the URI shape (lenient, spec §4.F).
func parseBinaryProperty(value string, params *Parameters) Photo {
	if strings.HasPrefix(value, "data:") {
		if bin, err := FromDataURI(value); err == nil {
			return Photo{Data: bin.WithSniffedMediaType(), Params: params.Clone()}
		}
		return Photo{Data: NewURIBinary(value, ""), Params: params.Clone()}
	}

	mediaType, _ := params.MediaType()
	isBase64 := false
	if enc, ok := params.Encoding(); ok && (strings.EqualFold(enc, "BASE64") || strings.EqualFold(enc, "b")) {
		isBase64 = true
	}
	if v, ok := params.Value(); ok && strings.EqualFold(v, "binary") {
		isBase64 = true
	}
	if isBase64 {
		if mediaType == "" {
			if types := params.Values("TYPE"); len(types) > 0 {
				mediaType = types[0]
			}
		}
		cleaned := stripWhitespace(value)
		if data, err := base64.StdEncoding.DecodeString(cleaned); err == nil {
			bin := NewInlineBinary(data, mediaType)
			return Photo{Data: bin.WithSniffedMediaType(), Params: params.Clone()}
		}
		return Photo{Data: NewURIBinary(value, mediaType), Params: params.Clone()}
	}

	return Photo{Data: NewURIBinary(value, mediaType), Params: params.Clone()}
}
