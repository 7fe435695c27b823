package data

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type Keyword struct {
	ID        int       `db:"id"`
	Category  string    `db:"category"`
	Keyword   string    `db:"keyword"`
	CreatedAt time.Time `db:"created_at"`
}

type DetectionResult struct {
	ID               int64          `db:"id"`
	URL              *string        `db:"url"`
	Title            string         `db:"title"`
	Content          string         `db:"content"`
	ContentHash      string         `db:"content_hash"`
	DetectedKeywords types.JSONText `db:"detected_keywords"`
	NotifiedAt       *time.Time     `db:"notified_at"`
	CreatedAt        time.Time      `db:"created_at"`
}

// DetectedKeyword is one element of DetectionResult.DetectedKeywords.
type DetectedKeyword struct {
	Category    string `json:"category"`
	Keyword     string `json:"keyword"`
	MatchedText string `json:"matchedText"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Context     string `json:"context"`
}
