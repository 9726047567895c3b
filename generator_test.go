package vcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequiresFormattedName(t *testing.T) {
	gen := NewGenerator(false, false, "")
	card := New()
	card.Name = &StructuredName{}

	_, err := gen.Generate(card, nil)
	require.Error(t, err)
	var ge *GenerateError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, ErrFNRequired, ge.Kind)
}

func TestGenerateTelephoneLiftingPerVersion(t *testing.T) {
	card := New()
	card.FormattedName = "Jane"
	card.Telephones = []Telephone{{Number: "+1-555-123-4567"}}

	gen := NewGenerator(false, false, "")

	v40 := V40
	out, err := gen.Generate(card, &v40)
	require.NoError(t, err)
	assert.Contains(t, out, "TEL;VALUE=uri:tel:+15551234567")

	v21 := V21
	out21, err := gen.Generate(card, &v21)
	require.NoError(t, err)
	assert.Contains(t, out21, "TEL:+1-555-123-4567")
}

func TestGenerateRawNameNotPaddedWithSemicolons(t *testing.T) {
	card := New()
	card.FormattedName = "John Doe"
	raw := NewRawName("John Doe")
	card.Name = &raw

	gen := NewGenerator(false, false, "")
	out, err := gen.Generate(card, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "N:John Doe\r\n")
	assert.NotContains(t, out, "N:John Doe;")
}

func TestGenerateFoldsLongLines(t *testing.T) {
	card := New()
	card.FormattedName = "Jane"
	card.Note = "this is a very long note that should exceed the seventy five octet fold limit enforced on output when folding is requested by the caller"

	gen := NewGenerator(true, false, "")
	out, err := gen.Generate(card, nil)
	require.NoError(t, err)

	for _, line := range splitCRLF(out) {
		assert.LessOrEqual(t, len(line), 75)
	}
}

func TestParseGenerateRoundTripCoreFields(t *testing.T) {
	card := New()
	card.FormattedName = "John Doe"
	name := NewStructuredName("Doe", "John", "", nil, nil)
	card.Name = &name
	card.Telephones = []Telephone{{Number: "+15551234567", Types: []string{"cell"}}}
	card.Emails = []Email{{Address: "john@example.com", Types: []string{"work"}}}

	gen := NewGenerator(false, false, "")
	text, err := gen.Generate(card, nil)
	require.NoError(t, err)

	p := NewParser(false, false)
	back, err := p.ParseSingle(text)
	require.NoError(t, err)

	assert.Equal(t, card.FormattedName, back.FormattedName)
	assert.Equal(t, card.Name.Family, back.Name.Family)
	assert.Equal(t, card.Name.Given, back.Name.Given)
	require.Len(t, back.Telephones, 1)
	assert.Equal(t, "+15551234567", back.Telephones[0].Number)
}

// quoteParamValueIfNeeded must wrap in a vCard quoted-string (plain DQUOTE,
// no backslash-escaping) rather than a Go string literal: QSAFE-CHAR
// already permits ':', ';', ',', and '\' unescaped inside DQUOTE.
func TestQuoteParamValueIfNeededDoesNotBackslashEscape(t *testing.T) {
	assert.Equal(t, `"a:b"`, quoteParamValueIfNeeded("a:b"))
	assert.Equal(t, `a\b`, quoteParamValueIfNeeded(`a\b`))
	assert.Equal(t, "plain", quoteParamValueIfNeeded("plain"))
}

func TestGenerateQuotesParameterValueContainingBackslash(t *testing.T) {
	card := New()
	card.FormattedName = "Jane"
	card.Addresses = []Address{{
		Params: NewParameters(),
		City:   "Springfield",
	}}
	card.Addresses[0].Params.Add("LABEL", `C:\Users\label, line`)

	gen := NewGenerator(false, false, "")
	out, err := gen.Generate(card, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `LABEL="C:\Users\label, line"`)
	assert.NotContains(t, out, `C:\\Users`)
}

func splitCRLF(s string) []string {
	var lines []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 2
		}
	}
	return lines
}
