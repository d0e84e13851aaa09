package handlers

import (
	"net/http"

	"tabman-backend/internal/service/tabs"
	"tabman-backend/pkg/api"

	"go.uber.org/zap"
)

// SearchHandler serves the search and stats endpoints.
type SearchHandler struct {
	service *tabs.Service
	logger  *zap.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *tabs.Service, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// Search handles GET /api/search?q=query&type=all|name|tag.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	kind := r.URL.Query().Get("type")

	results, err := h.service.Search(r.Context(), query, kind)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	responses := make([]api.TabDetailResponse, 0, len(results))
	for _, tab := range results {
		responses = append(responses, api.NewTabDetailResponse(tab))
	}
	api.WriteJSON(w, http.StatusOK, responses)
}

// Stats handles GET /api/stats.
func (h *SearchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewStatsResponse(stats))
}
