package vcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesEscapedCommaStillSplits(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane\r\nCATEGORIES:Family\\,Friends,Coworkers\r\nEND:VCARD\r\n"
	p := NewParser(false, false)

	card, err := p.ParseSingle(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"Family", "Friends", "Coworkers"}, card.Categories)
}

// NICKNAME uses the same splitValue(',') rule as CATEGORIES (spec §4.F),
// applied after the per-property value has already been unescaped for
// V30/V40 — so an escaped comma splits just like an unescaped one.
func TestNicknameEscapedCommaAlsoSplits(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane\r\nNICKNAME:Smith\\, Jr.\r\nEND:VCARD\r\n"
	p := NewParser(false, false)

	card, err := p.ParseSingle(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith", "Jr."}, card.Nicknames)
}

func TestDispatchGenderKindGeo(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane\r\nGENDER:F;woman\r\nKIND:organization\r\nGEO:geo:1.0,2.0\r\nEND:VCARD\r\n"
	p := NewParser(false, false)

	card, err := p.ParseSingle(input)
	require.NoError(t, err)
	require.NotNil(t, card.Gender)
	assert.Equal(t, "F", card.Gender.Sex)
	assert.Equal(t, "woman", card.Gender.Identity)
	require.NotNil(t, card.Kind)
	assert.Equal(t, KindOrganization, *card.Kind)
	require.NotNil(t, card.Geo)
	assert.Equal(t, 1.0, card.Geo.Latitude)
}

func TestDispatchRelatedCapturesFirstType(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane\r\nRELATED;TYPE=friend:urn:uuid:03a0e51f-d1aa-4385-8a53-e29025acd8af\r\nEND:VCARD\r\n"
	p := NewParser(false, false)

	card, err := p.ParseSingle(input)
	require.NoError(t, err)
	require.Len(t, card.Related, 1)
	assert.Equal(t, "friend", card.Related[0].RelationType)
}

func TestDispatchUnknownPropertyIsIgnored(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane\r\nSOME-UNKNOWN-PROP:value\r\nEND:VCARD\r\n"
	p := NewParser(false, false)

	card, err := p.ParseSingle(input)
	require.NoError(t, err)
	assert.Empty(t, card.ExtendedProperties)
}
