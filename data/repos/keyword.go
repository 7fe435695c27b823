package repos

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/detector"
)

type KeywordRepo struct {
	db *sqlx.DB
}

func NewKeywordRepo(db *sqlx.DB) *KeywordRepo {
	return &KeywordRepo{db}
}

// GetKeywords returns the stored keywords of category, or of every category
// when category is empty, in insertion order.
func (r *KeywordRepo) GetKeywords(category string) ([]detector.Entry, error) {
	var keywords []data.Keyword
	query := `
		SELECT id, category, keyword, created_at
		FROM keywords
		WHERE $1 = '' OR category = $1
		ORDER BY id ASC`

	err := r.db.Select(&keywords, query, category)
	if err != nil {
		return nil, fmt.Errorf("get keywords: %w", err)
	}

	entries := make([]detector.Entry, 0, len(keywords))
	for _, k := range keywords {
		entries = append(entries, detector.Entry{Category: detector.Category(k.Category), Keyword: k.Keyword})
	}
	return entries, nil
}

// InsertKeyword stores a single keyword. created is false when it already
// exists.
func (r *KeywordRepo) InsertKeyword(category, keyword string) (bool, error) {
	query := `
		INSERT INTO keywords (category, keyword)
		VALUES ($1, $2)
		ON CONFLICT (category, keyword) DO NOTHING`

	res, err := r.db.Exec(query, category, keyword)
	if err != nil {
		return false, fmt.Errorf("insert keyword: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert keyword rows affected: %w", err)
	}

	return n > 0, nil
}

// InsertKeywords stores every category's keywords and returns how many were
// new. Entries are cleaned like the catalog cleans them; invalid ones are
// skipped.
func (r *KeywordRepo) InsertKeywords(keywords map[string][]string) (int, error) {
	rows := seedRows(keywords)
	if len(rows) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO keywords (category, keyword)
		VALUES (:category, :keyword)
		ON CONFLICT (category, keyword) DO NOTHING`

	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("insert keywords: begin: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, row := range rows {
		res, err := tx.NamedExec(query, row)
		if err != nil {
			return 0, fmt.Errorf("insert keywords: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert keywords rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insert keywords: commit: %w", err)
	}
	return inserted, nil
}

func seedRows(keywords map[string][]string) []data.Keyword {
	categories := make([]string, 0, len(keywords))
	for category := range keywords {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([]data.Keyword, 0)
	for _, category := range categories {
		for _, w := range keywords[category] {
			e, err := detector.ParseEntry(category, w)
			if err != nil {
				slog.Warn("skipping seed keyword", "category", category, "keyword", w, "error", err)
				continue
			}
			rows = append(rows, data.Keyword{Category: e.Category.String(), Keyword: e.Keyword})
		}
	}
	return rows
}
