package matchers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BoundedAt reports whether text[start:end] is flanked by non-alphanumeric
// runes or the start/end of text. Hangul syllables count as letters, so
// "토토" inside "토토로" is not bounded.
func BoundedAt(text string, start, end int) bool {
	if start < 0 || end > len(text) || start > end {
		return false
	}

	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}

	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}

	return true
}

// MatchesBounded returns true if any match of re in text is bounded.
func MatchesBounded(text string, re *regexp.Regexp) bool {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if BoundedAt(text, loc[0], loc[1]) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

var looseReplacer = strings.NewReplacer(" ", "", "-", "", "_", "")

// ContainsLoose is a case-insensitive containment check that ignores spaces,
// hyphens and underscores on both sides.
func ContainsLoose(text, keyword string) bool {
	k := looseReplacer.Replace(strings.ToLower(keyword))
	if k == "" {
		return false
	}
	return strings.Contains(looseReplacer.Replace(strings.ToLower(text)), k)
}

// ContainsAny reports whether folded contains any of words. Both sides are
// expected to be lowercased already.
func ContainsAny(folded string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(folded, w) {
			return true
		}
	}
	return false
}
