// Package lineframer implements RFC 6350 §3.2 line folding and unfolding.
//
// vCard content lines are physically wrapped at 75 octets using a
// CRLF+whitespace continuation; this package turns a folded wire form back
// into logical lines, and the reverse.
package lineframer

import "strings"

// FoldLimit is the maximum octet length of a physical line before it must be
// continued on the next line.
const FoldLimit = 75

// Unfold normalizes line endings to LF and removes every fold continuation,
// returning one string per logical line. CRLF, LF, and mixed endings are all
// accepted on input.
func Unfold(s string) []string {
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	// A fold continuation is "\n" followed by exactly one SPACE or HTAB.
	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if c == '\n' && i+1 < len(normalized) && (normalized[i+1] == ' ' || normalized[i+1] == '\t') {
			i++ // drop the newline and the single leading whitespace octet
			continue
		}
		b.WriteByte(c)
	}

	unfolded := b.String()
	if unfolded == "" {
		return nil
	}
	return strings.Split(unfolded, "\n")
}

// Fold joins logical lines with CRLF and wraps any line whose octet length
// exceeds FoldLimit, breaking only at valid UTF-8 codepoint boundaries.
func Fold(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(foldLine(line))
	}
	return b.String()
}

func foldLine(line string) string {
	if len(line) <= FoldLimit {
		return line
	}

	var b strings.Builder
	remaining := line
	limit := FoldLimit
	first := true
	for len(remaining) > limit {
		cut := breakPoint(remaining, limit)
		if !first {
			b.WriteString("\r\n ")
		}
		b.WriteString(remaining[:cut])
		remaining = remaining[cut:]
		first = false
		limit = FoldLimit - 1 // continuation lines lose one octet to the leading space
	}
	if !first {
		b.WriteString("\r\n ")
	}
	b.WriteString(remaining)
	return b.String()
}

// breakPoint scans backward from limit until it lands on the start of a
// UTF-8 codepoint, so a multi-byte sequence is never split. If no such
// boundary exists within the window it breaks at limit anyway — safe because
// the input is guaranteed valid UTF-8.
func breakPoint(s string, limit int) int {
	if limit >= len(s) {
		return len(s)
	}
	cut := limit
	for cut > 0 && isUTF8Continuation(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}

func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}
