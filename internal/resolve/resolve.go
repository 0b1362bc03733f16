// Package resolve standardizes player names for identity matching. Stable
// player IDs are always preferred; normalized names exist only as a fallback
// for legacy data (curated floor lists, imported rows without IDs).
package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// generational suffixes dropped during normalization.
var nameSuffixes = []string{
	" JR", " JR.", " SR", " SR.",
	" II", " III", " IV", " V",
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// foldDiacritics strips combining marks after NFD decomposition, so that
// "João" and "Joao" normalize identically.
var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName standardizes a player name for matching by trimming,
// uppercasing, folding diacritics, dropping generational suffixes and
// punctuation, and collapsing internal whitespace.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, name); err == nil {
		name = folded
	}
	name = strings.ToUpper(name)

	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	name = strings.NewReplacer(
		".", "",
		",", "",
		"'", "",
		"-", " ",
	).Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// SameName reports whether two display names normalize to the same string.
func SameName(a, b string) bool {
	return NormalizeName(a) != "" && NormalizeName(a) == NormalizeName(b)
}
