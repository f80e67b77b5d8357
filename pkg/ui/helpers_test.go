package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer string", 8, "a longe…"},
		{"x", 1, "…"},
		{"anything", 0, "…"},
		{"日本語タイトル", 6, "日本…"}, // wide runes count as two cells
	}
	for _, c := range cases {
		if got := truncate(c.in, c.width); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestPadTo(t *testing.T) {
	if got := padTo("ab", 5); got != "ab   " {
		t.Errorf("padTo = %q", got)
	}
	if got := padTo("toolong", 4); len([]rune(got)) != 4 {
		t.Errorf("padTo should truncate first, got %q", got)
	}
}

func TestPluralize(t *testing.T) {
	if pluralize(1, "page", "pages") != "page" {
		t.Error("singular")
	}
	if pluralize(0, "page", "pages") != "pages" || pluralize(2, "page", "pages") != "pages" {
		t.Error("plural")
	}
}
