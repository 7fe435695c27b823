package detector

import (
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// categoryIndex holds the compiled needles of one category. The automaton
// only selects which needles occur; occurrences are then walked per needle
// so results are identical to a plain substring scan.
type categoryIndex struct {
	category  Category
	forms     []compiledForm
	automaton *ahocorasick.Matcher
	flexible  []flexibleKeyword
}

func newCategoryIndex(cat Category, forms []compiledForm, flexible []flexibleKeyword) *categoryIndex {
	ci := &categoryIndex{category: cat, forms: forms, flexible: flexible}
	if len(forms) > 0 {
		needles := make([]string, len(forms))
		for i, f := range forms {
			needles[i] = f.norm
		}
		ci.automaton = ahocorasick.NewStringMatcher(needles)
	}
	return ci
}

// present returns the indexes of needles found in norm, in compile order.
func (ci *categoryIndex) present(norm string) []int {
	if ci.automaton == nil || norm == "" {
		return nil
	}
	hits := ci.automaton.MatchThreadSafe([]byte(norm))
	sort.Ints(hits)

	out := make([]int, 0, len(hits))
	for i, idx := range hits {
		if idx < 0 || idx >= len(ci.forms) || (i > 0 && hits[i-1] == idx) {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// scanNormalized finds non-overlapping occurrences of each present needle.
// Occurrences of different needles may overlap; the deduplicator resolves
// them.
func (ci *categoryIndex) scanNormalized(text string, it indexedText, logger *slog.Logger) []Hit {
	var hits []Hit
	for _, idx := range ci.present(it.norm) {
		form := ci.forms[idx]
		from := 0
		for from <= len(it.norm) {
			pos := strings.Index(it.norm[from:], form.norm)
			if pos < 0 {
				break
			}
			pos += from
			end := pos + len(form.norm)
			from = end

			sp, ok := it.translate(pos, end)
			if !ok || sp.end > len(text) {
				logger.Debug("dropping candidate with unmappable offsets",
					"category", ci.category, "keyword", form.raw, "pos", pos, "end", end)
				continue
			}
			hits = append(hits, newHit(ci.category, form.raw, text, sp))
		}
	}
	return hits
}

// scanCombination searches the caller's text with each keyword's flexible
// pattern.
func (ci *categoryIndex) scanCombination(text string) []Hit {
	var hits []Hit
	for _, fk := range ci.flexible {
		for _, loc := range fk.re.FindAllStringIndex(text, -1) {
			if loc[0] >= loc[1] {
				continue
			}
			hits = append(hits, newHit(ci.category, fk.raw, text, span{loc[0], loc[1]}))
		}
	}
	return hits
}

func newHit(cat Category, keyword, text string, sp span) Hit {
	return Hit{
		Category:    cat,
		Keyword:     keyword,
		MatchedText: text[sp.start:sp.end],
		Start:       sp.start,
		End:         sp.end,
		Context:     markedContext(text, sp.start, sp.end, displayWindow),
	}
}

// expandWindow widens [start, end) by up to n runes on each side.
func expandWindow(text string, start, end, n int) (int, int) {
	ws := start
	for i := 0; i < n && ws > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:ws])
		ws -= size
	}
	we := end
	for i := 0; i < n && we < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[we:])
		we += size
	}
	return ws, we
}

func markedContext(text string, start, end, n int) string {
	ws, we := expandWindow(text, start, end, n)
	var b strings.Builder
	b.Grow(we - ws + 4)
	b.WriteString(text[ws:start])
	b.WriteString("**")
	b.WriteString(text[start:end])
	b.WriteString("**")
	b.WriteString(text[end:we])
	return b.String()
}
