package vcard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JCardFormatter converts between VCard and the jCard JSON representation
// (RFC 7095): ["vcard", [ [name, params, type, value], ... ] ]. Grounded on
// the RDAP package's jCard decoder, which unmarshals the same top-level
// ["vcard", [...]] array shape with encoding/json into []interface{}.
type JCardFormatter struct{}

// NewJCardFormatter returns a JCardFormatter. It carries no state and is
// safe for concurrent use.
func NewJCardFormatter() *JCardFormatter { return &JCardFormatter{} }

// jcardProperty is one ["name", {params}, "type", value] entry.
type jcardProperty struct {
	name   string
	params map[string][]string
	typ    string
	value  interface{}
}

// ToJSON renders v as an RFC 7095 jCard document.
func (f *JCardFormatter) ToJSON(v *VCard) ([]byte, error) {
	props := f.properties(v)
	arr := make([]interface{}, 0, len(props))
	for _, p := range props {
		arr = append(arr, p.encode())
	}
	top := []interface{}{"vcard", arr}
	return json.Marshal(top)
}

func (p jcardProperty) encode() []interface{} {
	params := map[string]interface{}{}
	for k, vs := range p.params {
		if len(vs) == 1 {
			params[strings.ToLower(k)] = vs[0]
		} else {
			params[strings.ToLower(k)] = vs
		}
	}
	return []interface{}{p.name, params, p.typ, p.value}
}

func (f *JCardFormatter) properties(v *VCard) []jcardProperty {
	var props []jcardProperty
	add := func(name, typ string, value interface{}, params map[string][]string) {
		props = append(props, jcardProperty{name: name, params: params, typ: typ, value: value})
	}

	add("version", "text", v.Version.String(), nil)
	add("fn", "text", v.FormattedName, nil)

	if v.Name != nil {
		n := v.Name
		if n.IsStructured() {
			add("n", "text", []interface{}{n.Family, n.Given, n.Additional, strings.Join(n.Prefixes, ","), strings.Join(n.Suffixes, ",")}, nil)
		} else {
			add("n", "text", n.RawValue(), nil)
		}
	}
	for _, nick := range v.Nicknames {
		add("nickname", "text", nick, nil)
	}
	if v.Organization != nil {
		o := v.Organization
		if o.IsStructured() {
			vals := []interface{}{o.Name}
			for _, u := range o.Units {
				vals = append(vals, u)
			}
			add("org", "text", vals, nil)
		} else {
			add("org", "text", o.RawValue(), nil)
		}
	}
	for _, a := range v.Addresses {
		params := typeParamMap(a.Types, a.Pref)
		if a.IsStructured() {
			add("adr", "text", []interface{}{a.POBox, a.Extended, a.Street, a.City, a.Region, a.PostalCode, a.Country}, params)
		} else {
			add("adr", "text", a.RawValue(), params)
		}
	}
	for _, t := range v.Telephones {
		value := "tel:" + t.Number
		if t.Ext != "" {
			value += ";ext=" + t.Ext
		}
		add("tel", "uri", value, typeParamMap(t.Types, t.Pref))
	}
	for _, e := range v.Emails {
		add("email", "text", e.Address, typeParamMap(e.Types, e.Pref))
	}
	for _, im := range v.IMPPs {
		add("impp", "uri", im.URI, typeParamMap(im.Types, im.Pref))
	}
	for _, u := range v.URLs {
		add("url", "uri", u.Value, typeParamMap(u.Types, u.Pref))
	}
	for _, l := range v.Languages {
		add("lang", "language-tag", l.Tag, prefParamMap(l.Pref))
	}
	for _, r := range v.Related {
		add("related", "uri", r.Value, typeParamMap(r.Types, r.Pref))
	}
	if v.Birthday != nil {
		add("bday", "date-and-or-time", v.Birthday.ToDateTimeString(), nil)
	}
	if v.Anniversary != nil {
		add("anniversary", "date-and-or-time", v.Anniversary.ToDateTimeString(), nil)
	}
	if v.Revision != nil {
		add("rev", "timestamp", v.Revision.ToDateTimeString(), nil)
	}
	if v.Gender != nil {
		add("gender", "text", v.Gender.ToValue(), nil)
	}
	if v.Geo != nil {
		add("geo", "uri", v.Geo.ToURI(), nil)
	}
	if v.Kind != nil {
		add("kind", "text", v.Kind.String(), nil)
	}
	for _, m := range v.Members {
		add("member", "uri", m, nil)
	}
	if len(v.Categories) > 0 {
		vals := make([]interface{}, len(v.Categories))
		for i, c := range v.Categories {
			vals[i] = c
		}
		add("categories", "text", vals, nil)
	}
	if v.Timezone != "" {
		add("tz", "text", v.Timezone, nil)
	}
	if v.Title != "" {
		add("title", "text", v.Title, nil)
	}
	if v.Role != "" {
		add("role", "text", v.Role, nil)
	}
	if v.Note != "" {
		add("note", "text", v.Note, nil)
	}
	if v.UID != "" {
		add("uid", "text", v.UID, nil)
	}
	if v.ProductID != "" {
		add("prodid", "text", v.ProductID, nil)
	}
	for _, src := range v.Sources {
		add("source", "uri", src, nil)
	}
	for _, ph := range v.Photos {
		props = append(props, f.binaryProperty("photo", ph.Data))
	}
	if v.Logo != nil {
		props = append(props, f.binaryProperty("logo", v.Logo.Data))
	}
	if v.Sound != nil {
		props = append(props, f.binaryProperty("sound", v.Sound.Data))
	}
	for _, k := range v.Keys {
		props = append(props, f.binaryProperty("key", k.Data))
	}
	for _, ext := range v.ExtendedProperties {
		add(strings.ToLower(ext.Name), "unknown", ext.Value, nil)
	}

	return props
}

func (f *JCardFormatter) binaryProperty(name string, b BinaryData) jcardProperty {
	if b.IsURI() {
		return jcardProperty{name: name, typ: "uri", value: b.URI()}
	}
	uri, _ := b.DataURI()
	return jcardProperty{name: name, typ: "uri", value: uri}
}

func typeParamMap(types []string, pref int) map[string][]string {
	m := map[string][]string{}
	if len(types) > 0 {
		m["type"] = types
	}
	if pref > 0 {
		m["pref"] = []string{fmt.Sprint(pref)}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func prefParamMap(pref int) map[string][]string {
	if pref <= 0 {
		return nil
	}
	return map[string][]string{"pref": {fmt.Sprint(pref)}}
}

// FromJSON parses an RFC 7095 jCard document into a VCard.
func (f *JCardFormatter) FromJSON(data []byte) (*VCard, error) {
	var top []interface{}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &FormatError{Kind: ErrNotVCard, Detail: err.Error()}
	}
	if len(top) != 2 {
		return nil, &FormatError{Kind: ErrNotVCard, Detail: "expected [\"vcard\", [...]]"}
	}
	tag, ok := top[0].(string)
	if !ok || !strings.EqualFold(tag, "vcard") {
		return nil, &FormatError{Kind: ErrNotVCard, Detail: "missing \"vcard\" tag"}
	}
	rawProps, ok := top[1].([]interface{})
	if !ok {
		return nil, &FormatError{Kind: ErrInvalidArray, Detail: "properties element is not an array"}
	}

	card := New()
	haveFN := false
	for _, rp := range rawProps {
		entry, ok := rp.([]interface{})
		if !ok || len(entry) < 4 {
			return nil, &FormatError{Kind: ErrInvalidArray, Detail: "malformed property entry"}
		}
		name, _ := entry[0].(string)
		params, _ := entry[1].(map[string]interface{})
		value := entry[3]

		switch strings.ToLower(name) {
		case "version":
			if s, ok := value.(string); ok {
				if ver, ok := ParseVersion(s); ok {
					card.Version = ver
				}
			}
		case "fn":
			card.FormattedName, _ = value.(string)
			haveFN = true
		case "n":
			card.Name = jcardName(value)
		case "nickname":
			card.Nicknames = append(card.Nicknames, flattenStrings(value)...)
		case "org":
			o := jcardOrganization(value)
			card.Organization = &o
		case "adr":
			a := jcardAddress(value)
			a.Types, a.Pref = typesAndPrefFromParams(params)
			card.Addresses = append(card.Addresses, a)
		case "tel":
			t := Telephone{Params: NewParameters()}
			t.Number, _ = value.(string)
			t.Number = strings.TrimPrefix(t.Number, "tel:")
			if idx := strings.Index(t.Number, ";ext="); idx >= 0 {
				t.Ext = t.Number[idx+len(";ext="):]
				t.Number = t.Number[:idx]
			}
			t.Types, t.Pref = typesAndPrefFromParams(params)
			card.Telephones = append(card.Telephones, t)
		case "email":
			e := Email{Params: NewParameters()}
			e.Address, _ = value.(string)
			e.Types, e.Pref = typesAndPrefFromParams(params)
			card.Emails = append(card.Emails, e)
		case "impp":
			im := IMPP{Params: NewParameters()}
			im.URI, _ = value.(string)
			im.Types, im.Pref = typesAndPrefFromParams(params)
			card.IMPPs = append(card.IMPPs, im)
		case "url":
			u := URL{Params: NewParameters()}
			u.Value, _ = value.(string)
			u.Types, u.Pref = typesAndPrefFromParams(params)
			card.URLs = append(card.URLs, u)
		case "lang":
			l := LanguagePref{Params: NewParameters()}
			l.Tag, _ = value.(string)
			_, l.Pref = typesAndPrefFromParams(params)
			card.Languages = append(card.Languages, l)
		case "related":
			r := Related{Params: NewParameters()}
			r.Value, _ = value.(string)
			r.Types, r.Pref = typesAndPrefFromParams(params)
			card.Related = append(card.Related, r)
		case "bday":
			if s, ok := value.(string); ok {
				if d, ok := TryParseDate(s); ok {
					card.Birthday = &d
				}
			}
		case "anniversary":
			if s, ok := value.(string); ok {
				if d, ok := TryParseDate(s); ok {
					card.Anniversary = &d
				}
			}
		case "rev":
			if s, ok := value.(string); ok {
				if d, ok := TryParseDate(s); ok {
					card.Revision = &d
				}
			}
		case "gender":
			if s, ok := value.(string); ok {
				g := ParseGender(s)
				card.Gender = &g
			}
		case "geo":
			if s, ok := value.(string); ok {
				if g, ok := ParseGeo(s); ok {
					card.Geo = &g
				}
			}
		case "kind":
			if s, ok := value.(string); ok {
				if k, ok := ParseKind(s); ok {
					card.Kind = &k
				}
			}
		case "member":
			if s, ok := value.(string); ok {
				card.Members = append(card.Members, s)
			}
		case "categories":
			card.Categories = append(card.Categories, flattenStrings(value)...)
		case "tz":
			card.Timezone, _ = value.(string)
		case "title":
			card.Title, _ = value.(string)
		case "role":
			card.Role, _ = value.(string)
		case "note":
			card.Note, _ = value.(string)
		case "uid":
			card.UID, _ = value.(string)
		case "prodid":
			card.ProductID, _ = value.(string)
		case "source":
			if s, ok := value.(string); ok {
				card.Sources = append(card.Sources, s)
			}
		case "photo", "logo", "sound", "key":
			s, _ := value.(string)
			bin := jcardBinary(s)
			switch strings.ToLower(name) {
			case "photo":
				card.Photos = append(card.Photos, Photo{Data: bin, Params: NewParameters()})
			case "logo":
				card.Logo = &Photo{Data: bin, Params: NewParameters()}
			case "sound":
				card.Sound = &Photo{Data: bin, Params: NewParameters()}
			case "key":
				card.Keys = append(card.Keys, Photo{Data: bin, Params: NewParameters()})
			}
		}
	}

	if !haveFN {
		return nil, &FormatError{Kind: ErrMissingProperties, Detail: "fn is required"}
	}
	return card, nil
}

func jcardBinary(value string) BinaryData {
	if strings.HasPrefix(value, "data:") {
		if bin, err := FromDataURI(value); err == nil {
			return bin.WithSniffedMediaType()
		}
	}
	return NewURIBinary(value, "")
}

func jcardName(value interface{}) *StructuredName {
	if s, ok := value.(string); ok {
		n := NewRawName(s)
		return &n
	}
	parts := flattenStrings(value)
	n := fromNameComponents(parts)
	return &n
}

func jcardOrganization(value interface{}) Organization {
	if s, ok := value.(string); ok {
		return NewRawOrganization(s)
	}
	parts := flattenStrings(value)
	return fromOrganizationComponents(parts)
}

func jcardAddress(value interface{}) Address {
	if s, ok := value.(string); ok {
		return NewRawAddress(s)
	}
	parts := flattenStrings(value)
	return fromAddressComponents(parts)
}

// flattenStrings converts a jCard value field, which may be a scalar or a
// nested array, into a flat []string (grounded on VCardProperty.Values() in
// the RDAP jCard decoder).
func flattenStrings(value interface{}) []string {
	var out []string
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch t := v.(type) {
		case nil:
			out = append(out, "")
		case string:
			out = append(out, t)
		case float64:
			out = append(out, fmt.Sprint(t))
		case bool:
			out = append(out, fmt.Sprint(t))
		case []interface{}:
			for _, e := range t {
				walk(e)
			}
		}
	}
	walk(value)
	return out
}

func typesAndPrefFromParams(params map[string]interface{}) (types []string, pref int) {
	if params == nil {
		return nil, 0
	}
	if raw, ok := params["type"]; ok {
		types = flattenStrings(raw)
	}
	if raw, ok := params["pref"]; ok {
		vals := flattenStrings(raw)
		if len(vals) > 0 {
			fmt.Sscanf(vals[0], "%d", &pref)
		}
	}
	return types, pref
}
