package detector

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/kova98/adwatch.api/enums"
)

// compiledForm is one searchable normalized needle. raw is the catalog
// keyword reported for hits on it.
type compiledForm struct {
	norm string
	raw  string
}

type fragmenter struct {
	separators []*regexp.Regexp
	meaningful []*regexp.Regexp
}

func newFragmenter(ind Indicators) (*fragmenter, error) {
	f := &fragmenter{}
	for _, p := range ind.KeywordSeparators {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "compile keyword separator %q", p)
		}
		f.separators = append(f.separators, re)
	}
	for _, p := range ind.MeaningfulPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "compile meaningful pattern %q", p)
		}
		f.meaningful = append(f.meaningful, re)
	}
	return f, nil
}

// fragments returns keyword followed by its distinct sub-keywords: the
// pieces and separator tokens of every split, and every meaningful token.
func (f *fragmenter) fragments(keyword string) []string {
	var parts []string
	for _, sep := range f.separators {
		prev := 0
		for _, loc := range sep.FindAllStringIndex(keyword, -1) {
			parts = append(parts, keyword[prev:loc[0]], keyword[loc[0]:loc[1]])
			prev = loc[1]
		}
		parts = append(parts, keyword[prev:])
	}

	out := []string{keyword}
	seen := map[string]struct{}{keyword: {}}
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) < 2 || !hasLetter(part) {
			continue
		}
		add(part)
	}
	for _, re := range f.meaningful {
		for _, m := range re.FindAllString(keyword, -1) {
			add(m)
		}
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// expandAliasVariants returns s and its DB/ID marker swaps in both scripts,
// without duplicates.
func expandAliasVariants(s string) []string {
	variants := []string{s}
	for _, swap := range markerSwaps {
		v := swap.re.ReplaceAllString(s, swap.repl)
		if !contains(variants, v) {
			variants = append(variants, v)
		}
	}
	return variants
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// compileForms builds a category bucket. Whole-keyword forms of every
// keyword come first so fragments never claim another keyword's own form.
func compileForms(n *normalizer, f *fragmenter, keywords []string, mode enums.SearchMode) []compiledForm {
	var forms []compiledForm
	seen := make(map[string]struct{})
	add := func(phrase, raw string, minRunes int) {
		for _, v := range expandAliasVariants(phrase) {
			normalized := n.Normalize(v)
			if normalized == "" || utf8.RuneCountInString(normalized) < minRunes {
				continue
			}
			if _, ok := seen[normalized]; ok {
				continue
			}
			seen[normalized] = struct{}{}
			forms = append(forms, compiledForm{norm: normalized, raw: raw})
		}
	}

	for _, kw := range keywords {
		add(kw, kw, 1)
	}
	if mode == enums.SearchModePartial {
		for _, kw := range keywords {
			for _, frag := range f.fragments(kw)[1:] {
				add(frag, kw, 2)
			}
		}
	}
	return forms
}

// flexibleKeyword matches a whole keyword in the caller's text, allowing
// whitespace between its runes and either script for DB/ID markers.
type flexibleKeyword struct {
	raw string
	re  *regexp.Regexp
}

func flexiblePattern(keyword string) (string, bool) {
	var tokens []string
	rest := keyword
	for rest != "" {
		if alt, n := matchMarker(rest); n > 0 {
			tokens = append(tokens, alt)
			rest = rest[n:]
			continue
		}
		r, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
		if unicode.IsSpace(r) {
			continue
		}
		tokens = append(tokens, regexp.QuoteMeta(string(r)))
	}
	if len(tokens) == 0 {
		return "", false
	}
	return `(?i)` + strings.Join(tokens, `\s*`), true
}

func matchMarker(s string) (string, int) {
	for _, m := range markerAlternations {
		if loc := m.head.FindStringIndex(s); loc != nil && loc[1] > 0 {
			return m.alt, loc[1]
		}
	}
	return "", 0
}

func compileFlexible(keywords []string) ([]flexibleKeyword, error) {
	out := make([]flexibleKeyword, 0, len(keywords))
	for _, kw := range keywords {
		pattern, ok := flexiblePattern(kw)
		if !ok {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compile combination pattern for %q", kw)
		}
		out = append(out, flexibleKeyword{raw: kw, re: re})
	}
	return out, nil
}
