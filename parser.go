package vcard

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/zedaapi/vcardcore/internal/lineframer"
	"github.com/zedaapi/vcardcore/internal/tokenizer"
)

// Parser parses textual vCard streams into VCard values. It is stateless
// after construction and safe for concurrent use by multiple goroutines on
// distinct input, per spec §5.
type Parser struct {
	lenient     bool
	preserveRaw bool
}

// NewParser constructs a Parser. lenient controls the recovery policy of
// spec §7; preserveRaw controls whether RawProperties is populated.
func NewParser(lenient, preserveRaw bool) *Parser {
	return &Parser{lenient: lenient, preserveRaw: preserveRaw}
}

// rawLine is one accumulated content line inside a BEGIN/END:VCARD block.
type rawLine struct {
	group  string
	name   string // original casing
	upper  string // case-folded for dispatch
	params *Parameters
	value  string // raw, still-escaped value substring
}

// Parse parses every BEGIN/END:VCARD block in s. In strict mode the first
// structural error aborts with no partial result; in lenient mode every
// recoverable defect is absorbed and the best-effort result is returned.
func (p *Parser) Parse(s string) ([]*VCard, error) {
	cards, diag := p.parse(s)
	if !p.lenient && diag != nil && diag.Len() > 0 {
		return nil, diag.Errors[0]
	}
	return cards, nil
}

// ParseWithDiagnostics behaves like Parse but also returns every recovered
// defect accumulated along the way, even in lenient mode (spec supplement;
// see SPEC_FULL.md AMBIENT STACK). The returned error is nil when nothing
// was recovered.
func (p *Parser) ParseWithDiagnostics(s string) ([]*VCard, *multierror.Error) {
	return p.parse(s)
}

// ParseSingle parses s and requires exactly one VCard.
func (p *Parser) ParseSingle(s string) (*VCard, error) {
	cards, err := p.Parse(s)
	if err != nil {
		return nil, err
	}
	if len(cards) != 1 {
		return nil, &ParseError{Kind: ErrEmptyInput, Detail: "expected exactly one vCard"}
	}
	return cards[0], nil
}

func (p *Parser) parse(s string) ([]*VCard, *multierror.Error) {
	var diag *multierror.Error

	if strings.TrimSpace(s) == "" {
		diag = multierror.Append(diag, &ParseError{Kind: ErrEmptyInput})
		return nil, diag
	}

	logicalLines := lineframer.Unfold(s)

	var cards []*VCard
	var current []rawLine
	inside := false

	for i, line := range logicalLines {
		if line == "" {
			continue
		}
		upper := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case upper == "BEGIN:VCARD":
			if inside {
				// reset (lenient) or fail (strict); spec §4.F state table
				if !p.lenient {
					diag = multierror.Append(diag, &ParseError{Kind: ErrMissingEnd, Line: i + 1, Snippet: line})
					return nil, diag
				}
				diag = multierror.Append(diag, &ParseError{Kind: ErrMissingEnd, Line: i + 1, Snippet: line, Detail: "nested BEGIN:VCARD, previous block reset"})
			}
			inside = true
			current = nil
		case upper == "END:VCARD":
			if !inside {
				if !p.lenient {
					diag = multierror.Append(diag, &ParseError{Kind: ErrMissingEnd, Line: i + 1, Snippet: line, Detail: "END:VCARD without BEGIN:VCARD"})
					return nil, diag
				}
				continue
			}
			card, cardDiag := p.assemble(current)
			if cardDiag != nil {
				diag = multierror.Append(diag, cardDiag.Errors...)
			}
			cards = append(cards, card)
			inside = false
			current = nil
		case inside:
			tok, err := tokenizer.Tokenize(line)
			if err != nil {
				diag = multierror.Append(diag, &ParseError{Kind: ErrMissingColon, Line: i + 1, Snippet: line})
				if !p.lenient {
					return nil, diag
				}
				continue
			}
			current = append(current, toRawLine(tok))
		default:
			// outside any envelope: skip (lenient) or fail (strict)
			if !p.lenient {
				diag = multierror.Append(diag, &ParseError{Kind: ErrMissingColon, Line: i + 1, Snippet: line, Detail: "content outside BEGIN/END:VCARD"})
				return nil, diag
			}
		}
	}

	if inside {
		// truncated stream: no END:VCARD
		if !p.lenient {
			diag = multierror.Append(diag, &ParseError{Kind: ErrMissingEnd})
			return nil, diag
		}
		diag = multierror.Append(diag, &ParseError{Kind: ErrMissingEnd, Detail: "stream ended before END:VCARD, partial vCard kept"})
		card, cardDiag := p.assemble(current)
		if cardDiag != nil {
			diag = multierror.Append(diag, cardDiag.Errors...)
		}
		cards = append(cards, card)
	}

	return cards, diag
}

func toRawLine(tok tokenizer.Line) rawLine {
	params := NewParameters()
	for _, tp := range tok.Params {
		if tp.Name == "" {
			for _, v := range tp.Values {
				params.AddBare(v)
			}
			continue
		}
		params.Add(tp.Name, tp.Values...)
	}
	return rawLine{
		group:  tok.Group,
		name:   tok.Name,
		upper:  strings.ToUpper(tok.Name),
		params: params,
		value:  tok.Value,
	}
}
