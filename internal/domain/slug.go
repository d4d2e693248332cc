package domain

import (
	"strings"
	"unicode"
)

const slugMaxLen = 80

// Slugify derives a URL-safe identifier from a title. Lowercases, trims
// surrounding whitespace, drops everything that is not a word character,
// whitespace or hyphen, collapses whitespace/underscore runs and hyphen runs
// into single hyphens, and truncates to 80 characters.
//
// Slugs double as on-disk doc file names, so every call site must go through
// this one implementation.
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(r)
		}
	}

	// Whitespace and underscore runs become a single hyphen.
	slug := b.String()
	slug = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return ' '
		}
		return r
	}, slug)
	slug = strings.Join(strings.Fields(slug), "-")

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	if runes := []rune(slug); len(runes) > slugMaxLen {
		slug = string(runes[:slugMaxLen])
	}
	return slug
}
