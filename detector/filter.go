package detector

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/kova98/adwatch.api/matchers"
)

type secondaryFilter struct {
	patterns         map[Category][]*regexp.Regexp
	trade            []string
	negative         []string
	categoryNegative map[Category][]string
	required         map[Category][]string
	selfEvident      map[Category]bool
}

func newSecondaryFilter(ind Indicators) (*secondaryFilter, error) {
	f := &secondaryFilter{
		patterns:         make(map[Category][]*regexp.Regexp, len(ind.Patterns)),
		trade:            lowerAll(ind.Trade),
		negative:         lowerAll(ind.Negative),
		categoryNegative: make(map[Category][]string, len(ind.CategoryNegative)),
		required:         make(map[Category][]string, len(ind.Required)),
		selfEvident:      make(map[Category]bool, len(ind.SelfEvident)),
	}

	for cat, patterns := range ind.Patterns {
		for _, p := range patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, errors.Wrapf(err, "compile pattern %q for category %s", p, cat)
			}
			f.patterns[cat] = append(f.patterns[cat], re)
		}
	}
	for cat, words := range ind.CategoryNegative {
		f.categoryNegative[cat] = lowerAll(words)
	}
	for cat, words := range ind.Required {
		f.required[cat] = lowerAll(words)
	}
	for _, cat := range ind.SelfEvident {
		f.selfEvident[cat] = true
	}
	return f, nil
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (f *secondaryFilter) passes(h Hit, text string) bool {
	if !f.matchesPattern(h, text) {
		return false
	}
	ws, we := expandWindow(text, h.Start, h.End, wideWindow)
	return f.validContext(h.Category, h.Keyword, text[ws:we])
}

// matchesPattern checks the narrow window around the hit. The first
// category pattern that matches both keyword and window decides, by
// whether one of its matches in the window stands as a whole word.
func (f *secondaryFilter) matchesPattern(h Hit, text string) bool {
	patterns := f.patterns[h.Category]
	if len(patterns) == 0 {
		return true
	}

	ws, we := expandWindow(text, h.Start, h.End, narrowWindow)
	window := text[ws:we]
	for _, re := range patterns {
		if re.MatchString(h.Keyword) && re.MatchString(window) {
			return matchers.MatchesBounded(window, re)
		}
	}
	return matchers.ContainsLoose(window, h.Keyword)
}

func (f *secondaryFilter) validContext(cat Category, keyword, context string) bool {
	ctx := strings.ToLower(context)
	kw := strings.ToLower(keyword)

	negative := matchers.ContainsAny(ctx, f.negative) || matchers.ContainsAny(ctx, f.categoryNegative[cat])

	// 대출DB, 주식DB and the like are illegal on their own.
	if f.selfEvident[cat] && matchers.ContainsAny(kw, dbMarkers) {
		return !negative
	}

	trade := matchers.ContainsAny(kw, f.trade) || matchers.ContainsAny(ctx, f.trade)
	required := matchers.ContainsAny(ctx, f.required[cat])
	return (trade || required) && !negative
}

// falsePositiveFilter drops hits whose context contains a benign phrase of
// their category after normalization.
type falsePositiveFilter struct {
	phrases map[Category][]string
}

func newFalsePositiveFilter(n *normalizer, c *Catalog) *falsePositiveFilter {
	f := &falsePositiveFilter{phrases: make(map[Category][]string)}
	for cat, phrases := range c.falsePositives {
		for _, p := range phrases {
			if normalized := n.Normalize(p); normalized != "" {
				f.phrases[cat] = append(f.phrases[cat], normalized)
			}
		}
	}
	return f
}

func (f *falsePositiveFilter) filter(n *normalizer, cat Category, hits []Hit) []Hit {
	phrases := f.phrases[cat]
	if len(phrases) == 0 || len(hits) == 0 {
		return hits
	}

	kept := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if !matchers.ContainsAny(n.Normalize(h.Context), phrases) {
			kept = append(kept, h)
		}
	}
	return kept
}
