package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// StripDiacritics decomposes s (NFD) and drops combining marks and any
// non-letter rune, leaving only bare base letters. Case is left as-is;
// callers apply their own case folding on top.
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range decomposed {
		// Skip combining marks (accents, cedillas, etc.)
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// NormalizeFR normalizes French text for use in a crossword grid.
// It strips diacritics, removes non-letters, and converts to uppercase A-Z.
//
// Examples:
//   - "Éléphant" → "ELEPHANT"
//   - "C'est-à-dire" → "CESTADIRE"
//   - "Ça va" → "CAVA"
//   - "Où es-tu?" → "OUESTU"
func NormalizeFR(s string) string {
	return strings.ToUpper(StripDiacritics(s))
}
