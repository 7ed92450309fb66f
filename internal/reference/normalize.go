package reference

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldName trims whitespace and strips diacritics from a reference display
// name so lookups and pipe-joined output columns stay plain ASCII even when
// the upstream document carries accented airport or carrier names.
func foldName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	// Decompose → remove nonspacing marks (accents) → recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
