package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "short caption stays on one line",
			text:  "COFFEE IS MY LIFELINE",
			width: 24,
			want:  []string{"COFFEE IS MY LIFELINE"},
		},
		{
			name:  "exact fit",
			text:  "ABCDE FGHIJ",
			width: 11,
			want:  []string{"ABCDE FGHIJ"},
		},
		{
			name:  "greedy fill",
			text:  "WHEN THE CODE COMPILES ON THE FIRST TRY",
			width: 14,
			want:  []string{"WHEN THE CODE", "COMPILES ON", "THE FIRST TRY"},
		},
		{
			name:  "whitespace collapses",
			text:  "  ONE \n\t TWO   THREE ",
			width: 40,
			want:  []string{"ONE TWO THREE"},
		},
		{
			name:  "long token is split across lines",
			text:  "AB SUPERCALIFRAGILISTIC",
			width: 8,
			want:  []string{"AB SUPER", "CALIFRAG", "ILISTIC"},
		},
		{
			name:  "long token on an empty line",
			text:  "AAAAAAAAAAAA",
			width: 5,
			want:  []string{"AAAAA", "AAAAA", "AA"},
		},
		{
			name:  "full line before long token",
			text:  "ABCDE XXXXXXXXXXXX",
			width: 5,
			want:  []string{"ABCDE", "XXXXX", "XXXXX", "XX"},
		},
		{
			name:  "non-positive width behaves as one column",
			text:  "AB C",
			width: 0,
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "multibyte runes count as one column",
			text:  "ÇA VA ÉTÉ",
			width: 5,
			want:  []string{"ÇA VA", "ÉTÉ"},
		},
		{
			name:  "empty",
			text:  "   ",
			width: 10,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.width, diff)
			}
		})
	}
}

func TestWrap_LinesRespectWidth(t *testing.T) {
	text := strings.Repeat("LOREM IPSUM DOLOR SIT AMET ", 20) + strings.Repeat("X", 97)
	for width := 1; width <= 40; width++ {
		for _, line := range Wrap(text, width) {
			if n := len([]rune(line)); n > width {
				t.Fatalf("width %d: line %q has %d runes", width, line, n)
			}
		}
	}
}

func TestWrap_Idempotent(t *testing.T) {
	text := "ONE DOES NOT SIMPLY WRAP TEXT TWICE"
	first := Wrap(text, 12)
	second := Wrap(strings.Join(first, " "), 12)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-wrapping changed the result (-first +second):\n%s", diff)
	}
}
