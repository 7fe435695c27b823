package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/detector"
	"github.com/kova98/adwatch.api/enums"
	"github.com/kova98/adwatch.api/metrics"
	"github.com/kova98/adwatch.api/models"
)

const maxDetectBody = 1 << 20

type ResultSaver interface {
	SaveResult(result data.DetectionResult) (enums.SaveStatus, int64, error)
}

type DetectHandler struct {
	engines *EngineHolder
	results ResultSaver
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewDetectHandler(engines *EngineHolder, results ResultSaver, m *metrics.Metrics, logger *slog.Logger) *DetectHandler {
	return &DetectHandler{
		engines: engines,
		results: results,
		metrics: m,
		logger:  logger,
	}
}

func (h *DetectHandler) Detect(w http.ResponseWriter, r *http.Request) Result {
	var req models.DetectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDetectBody)).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	title := norm.NFC.String(strings.TrimSpace(req.Title))
	content := norm.NFC.String(strings.TrimSpace(req.Content))
	if title == "" && content == "" {
		return BadRequest("Title or content is required.")
	}
	if req.URL != nil && strings.TrimSpace(*req.URL) == "" {
		req.URL = nil
	}

	opts := detector.DefaultDetectOptions()
	if req.EnableSecondaryFilter != nil {
		opts.EnableSecondaryFilter = *req.EnableSecondaryFilter
	}
	opts.RequireFullCombination = req.RequireFullCombination

	requestID := uuid.New()
	text := joinText(title, content)

	ts := time.Now()
	result := h.engines.Engine().Detect(text, opts)
	h.metrics.ObserveDetect(opts.RequireFullCombination, result, time.Since(ts))

	res := models.DetectResponse{
		RequestID: requestID,
		Count:     result.Count(),
		Detected:  toModelHits(result),
	}
	h.logger.Debug("detect", "requestId", requestID, "hits", res.Count, "combination", opts.RequireFullCombination)

	if !req.Save || res.Count == 0 {
		return Ok(res)
	}

	detected, err := json.Marshal(toDataHits(result))
	if err != nil {
		return InternalError(err, "detect: marshal hits")
	}
	status, id, err := h.results.SaveResult(data.DetectionResult{
		URL:              req.URL,
		Title:            title,
		Content:          content,
		ContentHash:      data.ContentHash(content),
		DetectedKeywords: detected,
	})
	if err != nil {
		return InternalError(err, "detect: save result")
	}
	h.metrics.SavedResults.WithLabelValues(string(status)).Inc()
	res.SaveStatus = string(status)
	res.ResultID = id

	return Ok(res)
}

// joinText is the analyzed string: title and content separated by a space,
// or whichever of the two is present.
func joinText(title, content string) string {
	switch {
	case title == "":
		return content
	case content == "":
		return title
	}
	return title + " " + content
}

func toModelHits(result detector.Result) map[string][]models.Hit {
	out := make(map[string][]models.Hit, len(result))
	for cat, hits := range result {
		list := make([]models.Hit, 0, len(hits))
		for _, h := range hits {
			list = append(list, models.Hit{
				Category:    h.Category.String(),
				Keyword:     h.Keyword,
				MatchedText: h.MatchedText,
				Start:       h.Start,
				End:         h.End,
				Context:     h.Context,
			})
		}
		out[cat.String()] = list
	}
	return out
}

// toDataHits flattens result ordered by category name.
func toDataHits(result detector.Result) []data.DetectedKeyword {
	cats := make([]string, 0, len(result))
	for cat := range result {
		cats = append(cats, cat.String())
	}
	sort.Strings(cats)

	out := make([]data.DetectedKeyword, 0, result.Count())
	for _, cat := range cats {
		for _, h := range result[detector.Category(cat)] {
			out = append(out, data.DetectedKeyword{
				Category:    cat,
				Keyword:     h.Keyword,
				MatchedText: h.MatchedText,
				Start:       h.Start,
				End:         h.End,
				Context:     h.Context,
			})
		}
	}
	return out
}
