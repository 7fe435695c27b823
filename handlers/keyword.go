package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/kova98/adwatch.api/detector"
	"github.com/kova98/adwatch.api/models"
)

type KeywordInserter interface {
	InsertKeyword(category, keyword string) (bool, error)
}

type KeywordHandler struct {
	repo    KeywordInserter
	engines *EngineHolder
}

func NewKeywordHandler(repo KeywordInserter, engines *EngineHolder) *KeywordHandler {
	return &KeywordHandler{repo, engines}
}

// CreateKeyword stores a keyword. It becomes detectable after the next
// catalog reload.
func (h *KeywordHandler) CreateKeyword(w http.ResponseWriter, r *http.Request) Result {
	var req models.CreateKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	category, err := detector.ParseCategory(req.Category)
	if err != nil {
		return BadRequest("Invalid category.")
	}

	keyword := norm.NFC.String(strings.TrimSpace(req.Keyword))
	if keyword == "" {
		return BadRequest("Keyword is required.")
	}
	if utf8.RuneCountInString(keyword) > 255 {
		return BadRequest("Keyword must be at most 255 characters.")
	}

	created, err := h.repo.InsertKeyword(category.String(), keyword)
	if err != nil {
		return InternalError(err, "create keyword: ")
	}

	if p, ok := PrincipalFrom(r.Context()); ok {
		slog.Info("keyword submitted", "category", category, "keyword", keyword, "created", created, "by", p.Name)
	}

	res := models.CreateKeywordResponse{
		Category: category.String(),
		Keyword:  keyword,
		Created:  created,
	}
	if !created {
		return Ok(res)
	}
	return Created(res)
}

// GetKeywords returns the catalog of the active engine.
func (h *KeywordHandler) GetKeywords(w http.ResponseWriter, r *http.Request) Result {
	e := h.engines.Engine()
	catalog := e.Catalog()

	filter := r.URL.Query().Get("category")
	res := models.GetKeywordsResponse{
		SearchMode: string(e.SearchMode()),
		Keywords:   make(map[string][]string),
	}
	for _, cat := range catalog.Categories() {
		if filter != "" && cat.String() != filter {
			continue
		}
		keywords := catalog.Keywords(cat)
		res.Keywords[cat.String()] = keywords
		res.Total += len(keywords)
	}

	return Ok(res)
}
