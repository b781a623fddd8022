// Package normalize cleans Liepa transcription text for training use.
//
// Annotation text carries light markup: spelled-out words in angle
// brackets (<eta>) and dual definitions in parentheses (Monik/Monique).
// The normalizer strips the markup, unifies typographic punctuation, and
// collapses whitespace while preserving Lithuanian diacritics.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// (von triero/von trier) -> von triero
	dualDefinitionRe = regexp.MustCompile(`\(([\p{L}\p{N}_\s]*)/[\p{L}\p{N}_\s]*\)`)

	// <mantrierodžek> -> mantrierodžek
	spelledRe = regexp.MustCompile(`<([\p{L}\p{N}_\s]*)>`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// punctuation replacements applied before markup stripping.
var replacer = strings.NewReplacer(
	"—", "-", // em dash
	"“", `"`, // left double quote
	"„", `"`, // low double quote
	"\t", " ",
)

// Text normalizes one transcription string.
func Text(s string) string {
	s = replacer.Replace(s)
	s = dualDefinitionRe.ReplaceAllString(s, "$1")
	s = spelledRe.ReplaceAllString(s, "$1")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// RemoveSymbols replaces marks, symbols, and punctuation with spaces,
// keeping letters (diacritics included) and digits. Used when a bare word
// sequence is needed, e.g. for error-rate comparison.
func RemoveSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.M, unicode.S, unicode.P) {
			return ' '
		}
		return r
	}, s)
}

// Words lowercases, strips symbols, and splits into whitespace-separated
// words.
func Words(s string) []string {
	s = strings.ToLower(RemoveSymbols(Text(s)))
	return strings.Fields(s)
}
