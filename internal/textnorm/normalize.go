// File path: internal/textnorm/normalize.go
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiPunct mirrors the ASCII punctuation set stripped during normalization.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// foldMarks decomposes text to NFKD and removes combining marks, so accented
// characters compare equal to their base form.
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize canonicalizes raw text for comparison: lowercase, strip ASCII
// punctuation, drop diacritics, collapse whitespace runs to a single space and
// trim. It is pure, deterministic and never fails; empty input yields "".
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(asciiPunct, r) {
			continue
		}
		b.WriteRune(r)
	}

	folded, _, err := transform.String(foldMarks, b.String())
	if err != nil {
		folded = b.String()
	}

	return strings.Join(strings.Fields(folded), " ")
}
