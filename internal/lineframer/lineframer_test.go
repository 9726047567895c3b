package lineframer

import (
	"strings"
	"testing"
)

func TestUnfold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"no folding", "FN:John Doe", []string{"FN:John Doe"}},
		{"crlf only", "BEGIN:VCARD\r\nEND:VCARD", []string{"BEGIN:VCARD", "END:VCARD"}},
		{"space continuation", "NOTE:long\r\n line", []string{"NOTE:longline"}},
		{"tab continuation", "NOTE:long\r\n\tline", []string{"NOTE:longline"}},
		{"lf only", "BEGIN:VCARD\nEND:VCARD", []string{"BEGIN:VCARD", "END:VCARD"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unfold(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Unfold(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Unfold(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFoldRoundTrip(t *testing.T) {
	long := "NOTE:" + strings.Repeat("a", 200)
	folded := Fold([]string{long})

	for _, physical := range strings.Split(folded, "\r\n") {
		if len(physical) > FoldLimit {
			t.Fatalf("physical line exceeds %d octets: %d", FoldLimit, len(physical))
		}
	}

	unfolded := Unfold(folded)
	if len(unfolded) != 1 || unfolded[0] != long {
		t.Fatalf("unfold(fold(s)) = %v, want [%q]", unfolded, long)
	}
}

func TestFoldNeverSplitsMultibyteSequence(t *testing.T) {
	// U+1F600 is a 4-byte UTF-8 sequence; repeat it past the fold limit.
	long := "NOTE:" + strings.Repeat("\U0001F600", 30)
	folded := Fold([]string{long})

	for _, physical := range strings.Split(folded, "\r\n") {
		trimmed := strings.TrimPrefix(physical, " ")
		if !isValidUTF8Line(trimmed) {
			t.Fatalf("fold produced an invalid UTF-8 physical line: %q", physical)
		}
	}

	unfolded := Unfold(folded)
	if len(unfolded) != 1 || unfolded[0] != long {
		t.Fatalf("unfold(fold(s)) = %v, want [%q]", unfolded, long)
	}
}

func isValidUTF8Line(s string) bool {
	return strings.ToValidUTF8(s, "�") == s
}

func TestFoldShortLineUnchanged(t *testing.T) {
	if got := Fold([]string{"FN:John Doe"}); got != "FN:John Doe" {
		t.Errorf("Fold of short line = %q, want unchanged", got)
	}
}
