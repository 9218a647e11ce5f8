package anki

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// emptySlugPlaceholder names media for words that slugify to nothing.
const emptySlugPlaceholder = "card"

// diacriticFold decomposes characters and drops combining marks, so that
// "Café" and "cafe" produce the same slug.
var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a filesystem-safe name from a word: lowercase ASCII
// letters and digits, non-alphanumeric runs collapsed to a single dash,
// no leading or trailing dashes.
func Slugify(word string) string {
	folded, _, err := transform.String(diacriticFold, word)
	if err != nil {
		folded = word
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}

	slug := b.String()
	if slug == "" {
		return emptySlugPlaceholder
	}
	return slug
}
