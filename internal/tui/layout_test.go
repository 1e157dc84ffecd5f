package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_FixesWidthAndHeight(t *testing.T) {
	got := normalizePane("a\nlonger line here\n", 6, 4)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), got)
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 6 {
			t.Fatalf("line %d: expected width 6, got %d (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected truncated line to end with an ellipsis, got %q", lines[1])
	}
}

func TestNormalizePane_ZeroHeightKeepsLines(t *testing.T) {
	got := normalizePane("a\nb\nc", 3, 0)
	if n := strings.Count(got, "\n"); n != 2 {
		t.Fatalf("expected 3 lines, got %q", got)
	}
}

func TestFitCell(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"abc", 0, ""},
		{"\x1b[1mab\x1b[0m", 3, "\x1b[1mab\x1b[0m "},
	}
	for _, tc := range cases {
		if got := fitCell(tc.in, tc.width); got != tc.want {
			t.Fatalf("fitCell(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestTableColumns_FillWidth(t *testing.T) {
	for _, w := range []int{40, 79, 120} {
		num, name, age, skills := tableColumns(w)
		if got := num + name + age + skills + 3; got != w {
			t.Fatalf("width %d: columns add up to %d", w, got)
		}
	}
}

func TestModalWidth_Clamped(t *testing.T) {
	if got := modalWidth(20); got != modalMinWidth {
		t.Fatalf("expected min width, got %d", got)
	}
	if got := modalWidth(300); got != modalMaxWidth {
		t.Fatalf("expected max width, got %d", got)
	}
}
