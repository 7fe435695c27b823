package models

import (
	"time"

	"github.com/google/uuid"
)

type DetectRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     *string `json:"url"`
	// EnableSecondaryFilter defaults to true when omitted.
	EnableSecondaryFilter  *bool `json:"enableSecondaryFilter"`
	RequireFullCombination bool  `json:"requireFullCombination"`
	Save                   bool  `json:"save"`
}

// Hit offsets are byte offsets into the analyzed text: title and content
// joined by a single space, or the one of them that is present.
type Hit struct {
	Category    string `json:"category"`
	Keyword     string `json:"keyword"`
	MatchedText string `json:"matchedText"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Context     string `json:"context"`
}

type DetectResponse struct {
	RequestID  uuid.UUID        `json:"requestId"`
	Count      int              `json:"count"`
	Detected   map[string][]Hit `json:"detected"`
	SaveStatus string           `json:"saveStatus,omitempty"`
	ResultID   int64            `json:"resultId,omitempty"`
}

type DetectionResult struct {
	ID         int64      `json:"id"`
	URL        *string    `json:"url"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Detected   []Hit      `json:"detected"`
	NotifiedAt *time.Time `json:"notifiedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type GetResultsResponse struct {
	Results []DetectionResult `json:"results"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"perPage"`
}
