package vcard

import "github.com/google/uuid"

// VCard is the aggregate root of the in-memory contact model (spec §3). A
// VCard owns every child value exclusively — there is no shared mutable
// substructure, so copies are always value copies (spec §5).
type VCard struct {
	Version Version

	FormattedName string // non-empty invariant checked at generate time
	Name          *StructuredName
	Nicknames     []string
	Photos        []Photo

	Birthday    *DateOrDateTime
	Anniversary *DateOrDateTime
	Revision    *DateOrDateTime

	Gender *Gender

	Addresses           []Address
	Telephones          []Telephone
	Emails              []Email
	IMPPs               []IMPP
	URLs                []URL
	Languages           []LanguagePref
	Keys                []Photo
	Related             []Related
	Members             []string
	XML                 []string
	Sources             []string
	FreeBusyURLs        []string
	CalendarURLs        []string
	CalendarAddressURLs []string
	Categories          []string

	Timezone  string
	Title     string
	Role      string
	Note      string
	ProductID string
	UID       string

	Geo          *GeoLocation
	Organization *Organization
	Logo         *Photo
	Sound        *Photo
	Kind         *Kind

	ExtendedProperties []ExtendedProperty
	RawProperties      []RawProperty // populated only when preserve_raw is set
}

// New returns an empty VCard defaulted to vCard 4.0, per spec §3.
func New() *VCard {
	return &VCard{Version: DefaultVersion}
}

// NewUID generates a fresh RFC 4122 UID value suitable for VCard.UID, for
// callers building a VCard from scratch rather than parsing one (spec
// supplement; see SPEC_FULL.md DOMAIN STACK).
func NewUID() string {
	return uuid.NewString()
}
