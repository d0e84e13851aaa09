package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tabman-backend/internal/service/tabs"
	"tabman-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TabHandler serves the tab CRUD endpoints.
type TabHandler struct {
	service  *tabs.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// NewTabHandler creates a new tab handler.
func NewTabHandler(service *tabs.Service, logger *zap.Logger) *TabHandler {
	return &TabHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// SaveTab handles POST /api/tabs.
func (h *TabHandler) SaveTab(w http.ResponseWriter, r *http.Request) {
	var req api.SaveTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "url is required")
		return
	}

	tab, err := h.service.SaveTab(r.Context(), req.URL, req.Title, req.Notes)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, api.NewTabResponse(tab))
}

// ListTabs handles GET /api/tabs?archived=true|false.
func (h *TabHandler) ListTabs(w http.ResponseWriter, r *http.Request) {
	archived := strings.EqualFold(r.URL.Query().Get("archived"), "true")

	tabsList, err := h.service.ListTabs(r.Context(), archived)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	responses := make([]api.TabResponse, 0, len(tabsList))
	for _, tab := range tabsList {
		responses = append(responses, api.NewTabResponse(tab))
	}
	api.WriteJSON(w, http.StatusOK, responses)
}

// GetTab handles GET /api/tabs/{tabID}.
func (h *TabHandler) GetTab(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")

	tab, err := h.service.GetTab(r.Context(), tabID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewTabDetailResponse(tab))
}

// DeleteTab handles DELETE /api/tabs/{tabID}.
func (h *TabHandler) DeleteTab(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")

	if err := h.service.DeleteTab(r.Context(), tabID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": tabID})
}

// SetArchived handles PUT /api/tabs/{tabID}/archive.
func (h *TabHandler) SetArchived(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")

	var req api.ArchiveTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tab, err := h.service.SetArchived(r.Context(), tabID, req.Archived)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewTabResponse(tab))
}
