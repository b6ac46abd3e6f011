// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"
)

// Make returns the lowercase, hyphen-separated slug for name. Equal input
// always yields an equal slug.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
