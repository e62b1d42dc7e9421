package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks and recomposes,
// so "Cirugía" and "Cirugia" normalize to the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical lookup form of a display name: accents
// stripped, lowercased, trimmed, inner whitespace collapsed. Idempotent.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(strings.TrimSpace(out))
	return strings.Join(strings.Fields(out), " ")
}
