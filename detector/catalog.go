package detector

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entry is one (category, keyword) pair from a keyword source.
type Entry struct {
	Category Category
	Keyword  string
}

// KeywordProvider returns catalog entries, all of them when category is empty.
type KeywordProvider interface {
	GetKeywords(category string) ([]Entry, error)
}

type ProviderFunc func(category string) ([]Entry, error)

func (f ProviderFunc) GetKeywords(category string) ([]Entry, error) {
	return f(category)
}

// StaticProvider serves a fixed list of entries.
type StaticProvider []Entry

func (p StaticProvider) GetKeywords(category string) ([]Entry, error) {
	if category == "" {
		return append([]Entry(nil), p...), nil
	}
	var out []Entry
	for _, e := range p {
		if string(e.Category) == category {
			out = append(out, e)
		}
	}
	return out, nil
}

// Catalog is an immutable snapshot of keywords and false-positive phrases
// per category. Category and keyword order is first-seen order.
type Catalog struct {
	categories     []Category
	keywords       map[Category][]string
	falsePositives map[Category][]string
}

type catalogBuilder struct {
	logger  *slog.Logger
	catalog *Catalog
	seen    map[Category]map[string]struct{}
}

func newCatalogBuilder(logger *slog.Logger) *catalogBuilder {
	return &catalogBuilder{
		logger: logger,
		catalog: &Catalog{
			keywords:       make(map[Category][]string),
			falsePositives: make(map[Category][]string),
		},
		seen: make(map[Category]map[string]struct{}),
	}
}

func (b *catalogBuilder) addKeyword(rawCategory, keyword, source string) {
	cat, err := ParseCategory(rawCategory)
	if err != nil {
		b.logger.Warn("skipping catalog entry", "source", source, "error", err)
		return
	}
	keyword = cleanPhrase(keyword)
	if keyword == "" {
		return
	}

	seen, ok := b.seen[cat]
	if !ok {
		seen = make(map[string]struct{})
		b.seen[cat] = seen
		b.catalog.categories = append(b.catalog.categories, cat)
	}
	if _, dup := seen[keyword]; dup {
		return
	}
	seen[keyword] = struct{}{}
	b.catalog.keywords[cat] = append(b.catalog.keywords[cat], keyword)
}

func (b *catalogBuilder) addFalsePositive(rawCategory, phrase string) {
	cat, err := ParseCategory(rawCategory)
	if err != nil {
		b.logger.Warn("skipping false positive phrase", "error", err)
		return
	}
	if phrase = cleanPhrase(phrase); phrase != "" {
		b.catalog.falsePositives[cat] = append(b.catalog.falsePositives[cat], phrase)
	}
}

func cleanPhrase(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// ParseEntry validates a category and cleans a keyword the same way the
// catalog does on load.
func ParseEntry(category, keyword string) (Entry, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return Entry{}, err
	}
	keyword = cleanPhrase(keyword)
	if keyword == "" {
		return Entry{}, fmt.Errorf("keyword for category %s is empty", cat)
	}
	return Entry{Category: cat, Keyword: keyword}, nil
}

// NewCatalog builds a catalog directly from entries and false-positive
// phrases.
func NewCatalog(entries []Entry, falsePositives map[Category][]string) *Catalog {
	b := newCatalogBuilder(slog.Default())
	for _, e := range entries {
		b.addKeyword(string(e.Category), e.Keyword, "entries")
	}
	for _, cat := range sortedKeys(falsePositives) {
		for _, phrase := range falsePositives[cat] {
			b.addFalsePositive(string(cat), phrase)
		}
	}
	return b.catalog
}

// LoadCatalog reads a snapshot from provider and merges the document's
// keyword section into it: pairs already returned by the provider are kept
// once, the rest are appended. False-positive phrases come from the
// document only. A failing provider is treated as an empty one.
func LoadCatalog(provider KeywordProvider, doc *Document, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	b := newCatalogBuilder(logger)

	if provider != nil {
		entries, err := provider.GetKeywords("")
		if err != nil {
			logger.Error("load catalog: get keywords from provider", "error", err)
		}
		for _, e := range entries {
			b.addKeyword(string(e.Category), e.Keyword, "provider")
		}
		if len(entries) == 0 {
			logger.Info("keyword provider is empty, using document keywords only")
		}
	}

	if doc != nil {
		for _, cat := range sortedKeys(doc.Keywords) {
			for _, kw := range doc.Keywords[cat] {
				b.addKeyword(cat, kw, "document")
			}
		}
		for _, cat := range sortedKeys(doc.FalsePositives) {
			for _, phrase := range doc.FalsePositives[cat] {
				b.addFalsePositive(cat, phrase)
			}
		}
	}

	return b.catalog
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

func (c *Catalog) Keywords(cat Category) []string {
	return append([]string(nil), c.keywords[cat]...)
}

func (c *Catalog) FalsePositives(cat Category) []string {
	return append([]string(nil), c.falsePositives[cat]...)
}

// Len returns the number of keywords across all categories.
func (c *Catalog) Len() int {
	total := 0
	for _, kws := range c.keywords {
		total += len(kws)
	}
	return total
}

func (c *Catalog) Has(cat Category) bool {
	_, ok := c.keywords[cat]
	return ok
}
