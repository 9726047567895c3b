package vcard

import (
	"strconv"
	"strings"
)

// paramPiece is one parameter segment to emit: Name=="" renders as a bare
// vCard 2.1 token (e.g. ";WORK"); otherwise it renders "NAME=v1,v2".
type paramPiece struct {
	Name   string
	Values []string
}

// emitStrategy isolates the per-version quirks named in spec §4.G and
// design note §9 ("a small emission-strategy object per version") so that
// per-property emission code stays free of version branching.
type emitStrategy struct {
	version Version
}

func newEmitStrategy(v Version) emitStrategy { return emitStrategy{version: v} }

// typeParams renders TYPE tokens: a single collapsed "TYPE=a,b" on V30/V40,
// one bare token per type on V21.
func (s emitStrategy) typeParams(types []string) []paramPiece {
	if len(types) == 0 {
		return nil
	}
	upper := make([]string, len(types))
	for i, t := range types {
		upper[i] = strings.ToUpper(t)
	}
	if s.version == V21 {
		pieces := make([]paramPiece, len(upper))
		for i, t := range upper {
			pieces[i] = paramPiece{Values: []string{t}}
		}
		return pieces
	}
	return []paramPiece{{Name: "TYPE", Values: upper}}
}

// prefParam renders PREF: bare "PREF" on V21, "PREF=n" on V30/V40.
func (s emitStrategy) prefParam(pref int) []paramPiece {
	if pref <= 0 {
		return nil
	}
	if s.version == V21 {
		return []paramPiece{{Values: []string{"PREF"}}}
	}
	return []paramPiece{{Name: "PREF", Values: []string{strconv.Itoa(pref)}}}
}

// binaryParams renders the encoding/media-type parameters for an inline
// binary payload on V21/V30; V40 carries the media type inside the data:
// URI value instead and needs no parameters here.
func (s emitStrategy) binaryParams(mediaType string) []paramPiece {
	switch s.version {
	case V21:
		pieces := []paramPiece{{Name: "ENCODING", Values: []string{"BASE64"}}}
		if mediaType != "" {
			pieces = append(pieces, paramPiece{Name: "TYPE", Values: []string{strings.ToUpper(shortMediaType(mediaType))}})
		}
		return pieces
	case V30:
		pieces := []paramPiece{{Name: "ENCODING", Values: []string{"b"}}}
		if mediaType != "" {
			pieces = append(pieces, paramPiece{Name: "MEDIATYPE", Values: []string{mediaType}})
		}
		return pieces
	default:
		return nil
	}
}

// shortMediaType maps a MIME type to the bare TYPE token vCard 2.1 expects
// (e.g. "image/png" -> "PNG").
func shortMediaType(mediaType string) string {
	if idx := strings.IndexByte(mediaType, '/'); idx >= 0 {
		return mediaType[idx+1:]
	}
	return mediaType
}

// telValue renders the TEL value and any extra parameters it needs: V40
// lifts the number to a tel: URI with VALUE=uri, V21/V30 keep the raw
// number (spec §4.G, S3).
func (s emitStrategy) telValue(number, ext string) (value string, extra []paramPiece) {
	if s.version != V40 {
		return number, nil
	}
	digits := telDigits(number)
	uri := "tel:" + digits
	if ext != "" {
		uri += ";ext=" + ext
	}
	return uri, []paramPiece{{Name: "VALUE", Values: []string{"uri"}}}
}

func telDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// geoValue renders "geo:lat,lon" on V40, "lat;lon" on V21/V30.
func (s emitStrategy) geoValue(g GeoLocation) string {
	if s.version == V40 {
		return g.ToURI()
	}
	return g.ToLegacyValue()
}
