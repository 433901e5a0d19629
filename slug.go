package mdpress

import (
	"strings"
	"unicode"
)

// NormalizeSlug converts an arbitrary string into a filesystem- and URL-safe
// slug: lowercase ASCII letters, digits, and single hyphens, with no leading
// or trailing hyphen. Whitespace runs and hyphen runs collapse to one hyphen;
// every other character is dropped outright. The result may be empty (input
// was all punctuation) — callers must treat an empty slug as invalid, never
// as a filename.
func NormalizeSlug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
		case r == '-' || unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}
