// Package domain contains the core entity types stored in the tab manager
// table: Tab, Tag, and the TabTag association. Validation happens at
// construction so a half-valid entity never reaches the repository.
package domain

import (
	"strings"
	"time"

	appErrors "tabman-backend/pkg/errors"

	"github.com/google/uuid"
)

// Tab is a saved browser tab.
type Tab struct {
	ID        string
	URL       string
	Title     string
	Notes     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTab creates a Tab with a generated ID and creation timestamp.
// The URL must be non-empty; the title may be empty.
func NewTab(url, title, notes string) (Tab, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Tab{}, appErrors.NewValidation("tab url cannot be empty")
	}

	now := time.Now().UTC()
	return Tab{
		ID:        uuid.New().String(),
		URL:       url,
		Title:     strings.TrimSpace(title),
		Notes:     strings.TrimSpace(notes),
		Archived:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TabWithTags is a Tab enriched with the names of its attached tags.
type TabWithTags struct {
	Tab
	Tags []string
}
