package domain

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Build an AI Agent!!", "build-an-ai-agent"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"snake_case_title", "snake-case-title"},
		{"Already-Hyphenated --- Title", "already-hyphenated-title"},
		{"Mixed   spaces\tand\ttabs", "mixed-spaces-and-tabs"},
		{"Symbols & (parens) / slashes?", "symbols-parens-slashes"},
		{"", ""},
		{"!!!", ""},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("abcde ", 30)
	got := Slugify(long)
	if len(got) != 80 {
		t.Errorf("Expected 80 chars, got %d (%q)", len(got), got)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	a := Slugify("Automate Your Inbox With n8n")
	b := Slugify("Automate Your Inbox With n8n")
	if a != b {
		t.Errorf("Expected identical slugs, got %q and %q", a, b)
	}
}
