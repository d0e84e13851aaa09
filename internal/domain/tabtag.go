package domain

import (
	"strings"
	"time"

	appErrors "tabman-backend/pkg/errors"
)

// TabTag is the many-to-many association between a Tab and a Tag. At most
// one association exists per (TabID, TagName) pair; the repository enforces
// this through a deterministic composite sort key.
type TabTag struct {
	TabID     string
	TagName   string
	CreatedAt time.Time
}

// NewTabTag creates an association. Both identifiers must be non-empty
// after trimming. The tag name is trimmed the same way NewTag trims it,
// so the association always refers to the tag under its stored name.
func NewTabTag(tabID, tagName string) (TabTag, error) {
	tabID = strings.TrimSpace(tabID)
	tagName = strings.TrimSpace(tagName)
	if tabID == "" {
		return TabTag{}, appErrors.NewValidation("association tab id cannot be empty")
	}
	if tagName == "" {
		return TabTag{}, appErrors.NewValidation("association tag name cannot be empty")
	}

	return TabTag{
		TabID:     tabID,
		TagName:   tagName,
		CreatedAt: time.Now().UTC(),
	}, nil
}
