// Package detector finds catalog keywords of illegal advertising in mixed
// Korean/Latin text. Keywords match through spacing, case, fullwidth and
// script variants ("토토DB", "토토 디비", "토토 D B"); candidates are then
// checked against category context rules and collapsed per overlap.
//
// An Engine is immutable after New and safe for concurrent use. Changing the
// catalog or the search mode means building a new Engine.
package detector

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/kova98/adwatch.api/enums"
)

// Hit is one reported occurrence. Start and End are byte offsets into the
// text passed to Detect.
type Hit struct {
	Category    Category
	Keyword     string
	MatchedText string
	Start       int
	End         int
	Context     string
}

// Result maps categories to hits ordered by (Start, End). Categories
// without hits are absent.
type Result map[Category][]Hit

// Count returns the number of hits across all categories.
func (r Result) Count() int {
	total := 0
	for _, hits := range r {
		total += len(hits)
	}
	return total
}

type Options struct {
	SearchMode enums.SearchMode
	// Indicators defaults to DefaultIndicators when nil.
	Indicators *Indicators
	Logger     *slog.Logger
}

type DetectOptions struct {
	EnableSecondaryFilter  bool
	RequireFullCombination bool
}

func DefaultDetectOptions() DetectOptions {
	return DetectOptions{EnableSecondaryFilter: true}
}

type Engine struct {
	catalog        *Catalog
	mode           enums.SearchMode
	normalizer     *normalizer
	indexes        []*categoryIndex
	secondary      *secondaryFilter
	falsePositives *falsePositiveFilter
	logger         *slog.Logger
}

// New compiles catalog into an Engine. Invalid rule tables are returned as
// errors.
func New(catalog *Catalog, opts Options) (*Engine, error) {
	if catalog == nil {
		catalog = NewCatalog(nil, nil)
	}
	mode := opts.SearchMode
	if mode == enums.SearchModeInvalid {
		mode = enums.SearchModeExact
	}
	if _, err := enums.ParseSearchMode(string(mode)); err != nil {
		return nil, err
	}
	ind := DefaultIndicators()
	if opts.Indicators != nil {
		ind = *opts.Indicators
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	n, err := newNormalizer(ind.Aliases)
	if err != nil {
		return nil, errors.Wrap(err, "new engine")
	}
	frag, err := newFragmenter(ind)
	if err != nil {
		return nil, errors.Wrap(err, "new engine")
	}
	secondary, err := newSecondaryFilter(ind)
	if err != nil {
		return nil, errors.Wrap(err, "new engine")
	}

	e := &Engine{
		catalog:        catalog,
		mode:           mode,
		normalizer:     n,
		secondary:      secondary,
		falsePositives: newFalsePositiveFilter(n, catalog),
		logger:         logger,
	}

	forms := 0
	for _, cat := range catalog.categories {
		keywords := catalog.keywords[cat]
		flexible, err := compileFlexible(keywords)
		if err != nil {
			return nil, errors.Wrap(err, "new engine")
		}
		ci := newCategoryIndex(cat, compileForms(n, frag, keywords, mode), flexible)
		forms += len(ci.forms)
		e.indexes = append(e.indexes, ci)
	}

	warnUnknownCategories(logger, catalog, ind)
	logger.Info("detector compiled",
		"mode", mode, "categories", len(e.indexes), "keywords", catalog.Len(), "forms", forms)

	return e, nil
}

func warnUnknownCategories(logger *slog.Logger, c *Catalog, ind Indicators) {
	tables := map[string][]Category{
		"required": sortedKeys(ind.Required),
		"patterns": sortedKeys(ind.Patterns),
		"negative": sortedKeys(ind.CategoryNegative),
	}
	for _, table := range sortedKeys(tables) {
		for _, cat := range tables[table] {
			if !c.Has(cat) {
				logger.Debug("indicator category not in catalog", "table", table, "category", cat)
			}
		}
	}
}

// Detect scans text and returns the surviving hits per category.
func (e *Engine) Detect(text string, opts DetectOptions) Result {
	result := make(Result)
	if text == "" {
		return result
	}

	var it indexedText
	if !opts.RequireFullCombination {
		it = e.normalizer.index(text)
	}

	for _, ci := range e.indexes {
		var hits []Hit
		if opts.RequireFullCombination {
			hits = ci.scanCombination(text)
		} else {
			hits = ci.scanNormalized(text, it, e.logger)
		}

		if opts.EnableSecondaryFilter {
			kept := hits[:0]
			for _, h := range hits {
				if e.secondary.passes(h, text) {
					kept = append(kept, h)
				}
			}
			hits = kept
		}

		hits = e.falsePositives.filter(e.normalizer, ci.category, hits)
		if hits = dedupe(hits); len(hits) > 0 {
			result[ci.category] = hits
		}
	}

	return result
}

// Normalize returns the canonical comparison form of s under the engine's
// alias table.
func (e *Engine) Normalize(s string) string {
	return e.normalizer.Normalize(s)
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

func (e *Engine) SearchMode() enums.SearchMode {
	return e.mode
}
