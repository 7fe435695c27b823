package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/enums"
)

type ResultRepo struct {
	db *sqlx.DB
}

func NewResultRepo(db *sqlx.DB) *ResultRepo {
	return &ResultRepo{db}
}

// SaveResult stores result unless its URL or normalized content is already
// stored. ContentHash is computed from Content when empty.
func (r *ResultRepo) SaveResult(result data.DetectionResult) (enums.SaveStatus, int64, error) {
	if result.ContentHash == "" {
		result.ContentHash = data.ContentHash(result.Content)
	}

	var id int64
	if result.URL != nil {
		err := r.db.Get(&id, "SELECT id FROM detection_results WHERE url = $1", *result.URL)
		if err == nil {
			return enums.SaveDuplicateURL, id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", 0, fmt.Errorf("save result: check url: %w", err)
		}
	}

	err := r.db.Get(&id, "SELECT id FROM detection_results WHERE content_hash = $1 LIMIT 1", result.ContentHash)
	if err == nil {
		return enums.SaveDuplicateContent, id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", 0, fmt.Errorf("save result: check content: %w", err)
	}

	query := `
		INSERT INTO detection_results (url, title, content, content_hash, detected_keywords, created_at)
		VALUES (:url, :title, :content, :content_hash, :detected_keywords, now())
		ON CONFLICT (url) DO NOTHING
		RETURNING id`

	rows, err := r.db.NamedQuery(query, result)
	if err != nil {
		return "", 0, fmt.Errorf("save result: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		// Lost a race against a concurrent insert of the same URL.
		return enums.SaveDuplicateURL, 0, rows.Err()
	}
	if err := rows.Scan(&id); err != nil {
		return "", 0, fmt.Errorf("scan returned id: %w", err)
	}

	return enums.SaveInserted, id, nil
}

func (r *ResultRepo) GetResults(limit, offset int) ([]data.DetectionResult, int, error) {
	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM detection_results"); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	var results []data.DetectionResult
	query := `
		SELECT id, url, title, content, content_hash, detected_keywords, notified_at, created_at
		FROM detection_results
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	if err := r.db.Select(&results, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("get results: %w", err)
	}

	return results, total, nil
}

func (r *ResultRepo) GetUnnotifiedResults() ([]data.DetectionResult, error) {
	var results []data.DetectionResult
	query := `
		SELECT id, url, title, content, content_hash, detected_keywords, notified_at, created_at
		FROM detection_results
		WHERE notified_at IS NULL
		ORDER BY created_at ASC`

	err := r.db.Select(&results, query)
	if err != nil {
		return nil, fmt.Errorf("get unnotified results: %w", err)
	}

	return results, nil
}

func (r *ResultRepo) MarkNotified(ids []int64, notifiedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE detection_results SET notified_at = ? WHERE id IN (?)`, notifiedAt, ids)
	if err != nil {
		return fmt.Errorf("build mark notified: %w", err)
	}
	query = r.db.Rebind(query)

	_, err = r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}

	return nil
}
