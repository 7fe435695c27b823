package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/models"
)

const resultsPerPage = 20

type ResultReader interface {
	GetResults(limit, offset int) ([]data.DetectionResult, int, error)
}

type ResultHandler struct {
	repo ResultReader
}

func NewResultHandler(repo ResultReader) *ResultHandler {
	return &ResultHandler{repo}
}

func (h *ResultHandler) GetResults(w http.ResponseWriter, r *http.Request) Result {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * resultsPerPage

	results, total, err := h.repo.GetResults(resultsPerPage, offset)
	if err != nil {
		return InternalError(err, "get results")
	}

	res := models.GetResultsResponse{
		Results: make([]models.DetectionResult, 0, len(results)),
		Total:   total,
		Page:    page,
		PerPage: resultsPerPage,
	}

	for _, dr := range results {
		var detected []data.DetectedKeyword
		if err := json.Unmarshal(dr.DetectedKeywords, &detected); err != nil {
			slog.Warn("stored hits are not decodable", "resultId", dr.ID, "error", err)
		}

		hits := make([]models.Hit, 0, len(detected))
		for _, d := range detected {
			hits = append(hits, models.Hit{
				Category:    d.Category,
				Keyword:     d.Keyword,
				MatchedText: d.MatchedText,
				Start:       d.Start,
				End:         d.End,
				Context:     d.Context,
			})
		}

		res.Results = append(res.Results, models.DetectionResult{
			ID:         dr.ID,
			URL:        dr.URL,
			Title:      dr.Title,
			Content:    dr.Content,
			Detected:   hits,
			NotifiedAt: dr.NotifiedAt,
			CreatedAt:  dr.CreatedAt,
		})
	}

	return Ok(res)
}
