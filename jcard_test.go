package vcard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJCardRoundTrip(t *testing.T) {
	card := New()
	card.FormattedName = "John Doe"
	name := NewStructuredName("Doe", "John", "", nil, nil)
	card.Name = &name
	card.Telephones = []Telephone{{Number: "+15551234567", Types: []string{"cell"}}}
	card.Emails = []Email{{Address: "john@example.com", Types: []string{"work"}}}
	bday, ok := TryParseDate("19900615")
	require.True(t, ok)
	card.Birthday = &bday
	org := NewStructuredOrganization("Acme", []string{"Eng"})
	card.Organization = &org

	f := NewJCardFormatter()
	data, err := f.ToJSON(card)
	require.NoError(t, err)

	var decoded []interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "vcard", decoded[0])

	back, err := f.FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, card.FormattedName, back.FormattedName)
	assert.Equal(t, card.Name.Family, back.Name.Family)
	assert.Equal(t, card.Name.Given, back.Name.Given)
	require.Len(t, back.Telephones, 1)
	assert.Equal(t, "+15551234567", back.Telephones[0].Number)
	assert.Contains(t, back.Telephones[0].Types, "cell")
	require.Len(t, back.Emails, 1)
	assert.Equal(t, "john@example.com", back.Emails[0].Address)
	require.NotNil(t, back.Birthday)
	assert.Equal(t, 1990, back.Birthday.Year)
	require.NotNil(t, back.Organization)
	assert.Equal(t, "Acme", back.Organization.Name)
	assert.Equal(t, []string{"Eng"}, back.Organization.Units)
}

func TestJCardFromJSONRejectsNonVCard(t *testing.T) {
	f := NewJCardFormatter()
	_, err := f.FromJSON([]byte(`["not-a-vcard", []]`))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrNotVCard, fe.Kind)
}

func TestJCardFromJSONRequiresFN(t *testing.T) {
	f := NewJCardFormatter()
	_, err := f.FromJSON([]byte(`["vcard", [["version", {}, "text", "4.0"]]]`))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrMissingProperties, fe.Kind)
}

// A raw-shaped n/org/adr value is a bare JSON string (spec §4.H), not an
// array, and must round-trip without picking up semicolon padding.
func TestJCardRawShapeNameOrgAdrRoundTrip(t *testing.T) {
	card := New()
	card.FormattedName = "Acme Helpdesk"
	name := NewRawName("Acme Helpdesk")
	card.Name = &name
	org := NewRawOrganization("Acme Corp")
	card.Organization = &org
	card.Addresses = []Address{NewRawAddress("123 Main St, Springfield")}

	f := NewJCardFormatter()
	data, err := f.ToJSON(card)
	require.NoError(t, err)

	back, err := f.FromJSON(data)
	require.NoError(t, err)

	require.NotNil(t, back.Name)
	assert.True(t, back.Name.IsRaw())
	assert.Equal(t, "Acme Helpdesk", back.Name.RawValue())
	assert.Equal(t, "Acme Helpdesk", back.Name.ToValue())

	require.NotNil(t, back.Organization)
	assert.True(t, back.Organization.IsRaw())
	assert.Equal(t, "Acme Corp", back.Organization.RawValue())

	require.Len(t, back.Addresses, 1)
	assert.True(t, back.Addresses[0].IsRaw())
	assert.Equal(t, "123 Main St, Springfield", back.Addresses[0].RawValue())
}
