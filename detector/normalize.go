package detector

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/width"
)

type aliasRule struct {
	re   *regexp.Regexp
	repl string
}

type normalizer struct {
	aliases []aliasRule
}

// span is a half-open byte range of the caller's text.
type span struct {
	start, end int
}

// segment is one rune of the alias-substituted working string together with
// the original bytes it stands for.
type segment struct {
	r rune
	span
}

// indexedText is a normalized string where spans[i] is the original byte
// range that produced byte i of norm.
type indexedText struct {
	norm  string
	spans []span
}

func newNormalizer(rules []AliasRule) (*normalizer, error) {
	n := &normalizer{aliases: make([]aliasRule, 0, len(rules))}
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compile alias rule %q", rule.Pattern)
		}
		n.aliases = append(n.aliases, aliasRule{re: re, repl: rule.Replacement})
	}
	return n, nil
}

// Normalize applies the alias rules, folds width and case, and removes
// separators.
func (n *normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	return n.index(s).norm
}

func (n *normalizer) index(text string) indexedText {
	segs := n.substitute(text)

	var b strings.Builder
	b.Grow(len(text))
	spans := make([]span, 0, len(text))
	for _, seg := range segs {
		r := foldRune(seg.r)
		if isSeparator(r) {
			continue
		}
		size := utf8.RuneLen(r)
		if size < 0 {
			r, size = utf8.RuneError, len(string(utf8.RuneError))
		}
		b.WriteRune(r)
		for k := 0; k < size; k++ {
			spans = append(spans, seg.span)
		}
	}

	return indexedText{norm: b.String(), spans: spans}
}

// substitute applies the alias rules in order. Replacement runes inherit the
// span of the text they replaced, so offsets stay valid for the caller's
// string even when a rule changes length.
func (n *normalizer) substitute(text string) []segment {
	segs := make([]segment, 0, len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		segs = append(segs, segment{r: r, span: span{i, i + size}})
		i += size
	}

	for _, rule := range n.aliases {
		cur, owner := render(segs)
		locs := rule.re.FindAllStringIndex(cur, -1)
		if len(locs) == 0 {
			continue
		}

		next := make([]segment, 0, len(segs))
		prev := 0
		for _, loc := range locs {
			if loc[0] == loc[1] {
				continue
			}
			first, last := owner[loc[0]], owner[loc[1]-1]
			next = append(next, segs[prev:first]...)
			sp := span{segs[first].start, segs[last].end}
			for _, r := range rule.repl {
				next = append(next, segment{r: r, span: sp})
			}
			prev = last + 1
		}
		segs = append(next, segs[prev:]...)
	}

	return segs
}

// render returns the working string and, for each of its bytes, the index
// of the segment it belongs to.
func render(segs []segment) (string, []int) {
	var b strings.Builder
	owner := make([]int, 0, len(segs))
	for i, seg := range segs {
		before := b.Len()
		b.WriteRune(seg.r)
		for k := before; k < b.Len(); k++ {
			owner = append(owner, i)
		}
	}
	return b.String(), owner
}

func foldRune(r rune) rune {
	if r >= utf8.RuneSelf {
		if f := width.LookupRune(r).Folded(); f != 0 {
			r = f
		}
	}
	return unicode.ToLower(r)
}

// translate maps the normalized byte range [pos, end) back to the caller's
// text.
func (t indexedText) translate(pos, end int) (span, bool) {
	if pos < 0 || end > len(t.spans) || pos >= end {
		return span{}, false
	}
	sp := span{t.spans[pos].start, t.spans[end-1].end}
	return sp, sp.start < sp.end
}
