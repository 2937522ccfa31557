package utils

import (
	"strings"
	"unicode"
)

// Slugify derives the URL-safe form of a name: lowercase ASCII letters,
// digits and hyphens, with runs of other characters collapsed into single
// hyphens and no leading or trailing hyphen.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	return b.String()
}
