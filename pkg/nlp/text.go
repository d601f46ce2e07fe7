package nlp

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// letters is the Turkish-aware letter class shared by catalog and extractor patterns.
const letters = `a-zA-ZğĞüÜşŞıİöÖçÇ`

// Normalize composes the text to NFC and collapses runs of whitespace.
// Decomposed input (e.g. "I" + U+0307) would otherwise slip past the letter class.
func Normalize(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// Lower folds text with Turkish casing rules: "İ" becomes "i" and "I" becomes "ı".
// A Caser is stateful, so a fresh one is built per call.
func Lower(text string) string {
	return cases.Lower(language.Turkish).String(Normalize(text))
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// hasWord reports whether any word of text is one of stems. Stems longer than
// three letters also match inflected forms ("ekleyin", "güncellendi").
func hasWord(text string, stems ...string) bool {
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,;:!?'\"’")
		for _, s := range stems {
			if w == s || (utf8.RuneCountInString(s) > 3 && strings.HasPrefix(w, s)) {
				return true
			}
		}
	}
	return false
}

// Suffixes returns the word suffixes of phrase from the full phrase down to the last word.
func Suffixes(phrase string) []string {
	words := strings.Fields(phrase)
	out := make([]string, 0, len(words))
	for i := range words {
		out = append(out, strings.Join(words[i:], " "))
	}
	return out
}
