package vcard

import (
	"bytes"
	"testing"
)

func TestBinaryDataURIRoundTrip(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	b := NewInlineBinary(data, "image/png")

	uri, err := b.DataURI()
	if err != nil {
		t.Fatalf("DataURI() error: %v", err)
	}

	back, err := FromDataURI(uri)
	if err != nil {
		t.Fatalf("FromDataURI() error: %v", err)
	}
	if !bytes.Equal(back.Bytes(), data) {
		t.Fatalf("bytes did not round-trip: got %v, want %v", back.Bytes(), data)
	}
	if back.MediaType() != "image/png" {
		t.Fatalf("MediaType() = %q, want image/png", back.MediaType())
	}
}

func TestBinaryDataURIRequiresInlineShape(t *testing.T) {
	b := NewURIBinary("https://example.com/photo.jpg", "image/jpeg")
	if _, err := b.DataURI(); err == nil {
		t.Fatalf("expected error computing DataURI on a URI-shape BinaryData")
	}
}

func TestWithSniffedMediaTypeDoesNotOverrideExistingHint(t *testing.T) {
	b := NewInlineBinary([]byte{0x89, 'P', 'N', 'G'}, "image/custom")
	sniffed := b.WithSniffedMediaType()
	if sniffed.MediaType() != "image/custom" {
		t.Fatalf("MediaType() = %q, want image/custom (parser hint should win)", sniffed.MediaType())
	}
}
