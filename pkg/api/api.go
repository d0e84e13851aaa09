// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"tabman-backend/internal/domain"
	"tabman-backend/internal/service/tabs"
)

// SaveTabRequest is the expected body for a POST /api/tabs request.
type SaveTabRequest struct {
	URL   string `json:"url" validate:"required"`
	Title string `json:"title"`
	Notes string `json:"notes"`
}

// ArchiveTabRequest is the expected body for a PUT /api/tabs/{tabID}/archive request.
type ArchiveTabRequest struct {
	Archived bool `json:"archived"`
}

// AttachTagRequest is the expected body for a POST /api/tabs/{tabID}/tags request.
type AttachTagRequest struct {
	Tag string `json:"tag" validate:"required"`
}

// TabResponse is the API representation of a single tab.
type TabResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TabDetailResponse includes a tab and its attached tag names.
type TabDetailResponse struct {
	TabResponse
	Tags []string `json:"tags"`
}

// TagResponse is the API representation of a single tag.
type TagResponse struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// StatsResponse reports stored entity counts.
type StatsResponse struct {
	TotalTabs         int `json:"total_tabs"`
	ArchivedTabs      int `json:"archived_tabs"`
	ActiveTabs        int `json:"active_tabs"`
	TotalTags         int `json:"total_tags"`
	TotalAssociations int `json:"total_associations"`
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewTabResponse converts a domain tab to its API form.
func NewTabResponse(tab domain.Tab) TabResponse {
	return TabResponse{
		ID:        tab.ID,
		URL:       tab.URL,
		Title:     tab.Title,
		Notes:     tab.Notes,
		Archived:  tab.Archived,
		CreatedAt: tab.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tab.UpdatedAt.Format(time.RFC3339),
	}
}

// NewTabDetailResponse converts an enriched tab to its API form.
func NewTabDetailResponse(tab domain.TabWithTags) TabDetailResponse {
	tags := tab.Tags
	if tags == nil {
		tags = []string{}
	}
	return TabDetailResponse{
		TabResponse: NewTabResponse(tab.Tab),
		Tags:        tags,
	}
}

// NewTagResponse converts a domain tag to its API form.
func NewTagResponse(tag domain.Tag) TagResponse {
	return TagResponse{
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt.Format(time.RFC3339),
	}
}

// NewStatsResponse converts service stats to their API form.
func NewStatsResponse(stats tabs.Stats) StatsResponse {
	return StatsResponse{
		TotalTabs:         stats.TotalTabs,
		ArchivedTabs:      stats.ArchivedTabs,
		ActiveTabs:        stats.ActiveTabs,
		TotalTags:         stats.TotalTags,
		TotalAssociations: stats.TotalAssociations,
	}
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}
