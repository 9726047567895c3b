package vcard

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMediaType is substituted when a BinaryData's media type is unknown
// at the point data_uri() is computed (spec §4.E).
const DefaultMediaType = "application/octet-stream"

// BinaryData represents a PHOTO/LOGO/SOUND/KEY value: either inline bytes
// with an optional media type, or a URI reference with an optional media
// type. Exactly one of the two shapes is populated (spec §3, §9) — never
// both, which is why this is a tagged union rather than a struct carrying
// both a byte slice and a URI string simultaneously.
type BinaryData struct {
	isInline  bool
	bytes     []byte
	uri       string
	mediaType string
}

// NewInlineBinary builds the inline-bytes shape.
func NewInlineBinary(data []byte, mediaType string) BinaryData {
	return BinaryData{isInline: true, bytes: data, mediaType: mediaType}
}

// NewURIBinary builds the URI-reference shape.
func NewURIBinary(uri, mediaType string) BinaryData {
	return BinaryData{uri: uri, mediaType: mediaType}
}

// IsInline reports whether this value holds embedded bytes.
func (b BinaryData) IsInline() bool { return b.isInline }

// IsURI reports whether this value holds a URI reference.
func (b BinaryData) IsURI() bool { return !b.isInline }

// Bytes returns the embedded bytes when IsInline is true.
func (b BinaryData) Bytes() []byte { return b.bytes }

// URI returns the reference string when IsURI is true.
func (b BinaryData) URI() string { return b.uri }

// MediaType returns the recorded media type, which may be empty.
func (b BinaryData) MediaType() string { return b.mediaType }

// WithSniffedMediaType returns a copy with MediaType populated from the
// inline bytes' content when it is currently unset, using
// github.com/gabriel-vasile/mimetype (spec supplement, see SPEC_FULL.md
// DOMAIN STACK). It is a no-op for the URI shape or when MediaType is
// already set — parser-supplied hints always win over sniffing.
func (b BinaryData) WithSniffedMediaType() BinaryData {
	if !b.isInline || b.mediaType != "" || len(b.bytes) == 0 {
		return b
	}
	detected := mimetype.Detect(b.bytes)
	b.mediaType = detected.String()
	return b
}

// DataURI renders the inline shape as a data: URI. Defined only for the
// inline shape; mediaType defaults to DefaultMediaType when unset.
func (b BinaryData) DataURI() (string, error) {
	if !b.isInline {
		return "", fmt.Errorf("vcard: DataURI is only defined for inline binary data")
	}
	mt := b.mediaType
	if mt == "" {
		mt = DefaultMediaType
	}
	encoded := base64.StdEncoding.EncodeToString(b.bytes)
	return fmt.Sprintf("data:%s;base64,%s", mt, encoded), nil
}

// FromDataURI parses a "data:<media>;base64,<b64>" URI into the inline
// shape. Spec §8 property 8: round-trips bytes and media type.
func FromDataURI(dataURI string) (BinaryData, error) {
	const prefix = "data:"
	if !strings.HasPrefix(dataURI, prefix) {
		return BinaryData{}, fmt.Errorf("vcard: not a data: URI")
	}
	rest := dataURI[len(prefix):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return BinaryData{}, fmt.Errorf("vcard: malformed data URI, no comma")
	}
	header := rest[:comma]
	payload := rest[comma+1:]

	mediaType := ""
	isBase64 := false
	for _, seg := range strings.Split(header, ";") {
		if seg == "base64" {
			isBase64 = true
			continue
		}
		if seg != "" {
			mediaType = seg
		}
	}
	if !isBase64 {
		return BinaryData{}, fmt.Errorf("vcard: only base64 data URIs are supported")
	}
	decoded, err := decodeBase64Lenient(payload)
	if err != nil {
		return BinaryData{}, fmt.Errorf("vcard: decode data URI: %w", err)
	}
	return NewInlineBinary(decoded, mediaType), nil
}

// decodeBase64Lenient strips whitespace before decoding, matching real
// producers that insert line breaks inside a base64 payload.
func decodeBase64Lenient(s string) ([]byte, error) {
	cleaned := stripWhitespace(s)
	if data, err := base64.StdEncoding.DecodeString(cleaned); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(cleaned)
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
