package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kova98/adwatch.api/metrics"
	"github.com/kova98/adwatch.api/models"
)

type CatalogHandler struct {
	engines *EngineHolder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCatalogHandler(engines *EngineHolder, m *metrics.Metrics, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{engines, m, logger}
}

// Reload rebuilds the engine from the keyword table and the document.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) Result {
	e, err := h.engines.Reload()
	if err != nil {
		return InternalError(err, "reload catalog: ")
	}

	catalog := e.Catalog()
	h.metrics.SetCatalog(catalog)
	h.logger.Info("catalog reloaded", "categories", len(catalog.Categories()), "keywords", catalog.Len())

	return Ok(models.ReloadCatalogResponse{
		SearchMode: string(e.SearchMode()),
		Categories: len(catalog.Categories()),
		Keywords:   catalog.Len(),
	})
}
