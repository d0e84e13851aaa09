package handlers

import (
	"encoding/json"
	"net/http"

	"tabman-backend/internal/service/tabs"
	"tabman-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TagHandler serves the tag endpoints.
type TagHandler struct {
	service  *tabs.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(service *tabs.Service, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// ListTags handles GET /api/tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	responses := make([]api.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, api.NewTagResponse(tag))
	}
	api.WriteJSON(w, http.StatusOK, responses)
}

// AttachTag handles POST /api/tabs/{tabID}/tags.
func (h *TagHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")

	var req api.AttachTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "tag name is required")
		return
	}

	if err := h.service.AttachTag(r.Context(), tabID, req.Tag); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]string{"status": "tagged", "tag": req.Tag})
}

// DetachTag handles DELETE /api/tabs/{tabID}/tags/{tagName}.
func (h *TagHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")
	tagName := chi.URLParam(r, "tagName")

	if err := h.service.DetachTag(r.Context(), tabID, tagName); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "untagged"})
}
