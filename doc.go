// Package vcard parses and serializes vCard 2.1, 3.0, and 4.0 contact
// records, and converts between the textual vCard form and its jCard
// (RFC 7095) and xCard (RFC 6351) siblings.
package vcard
