package domain

import (
	"strings"
	"time"

	appErrors "tabman-backend/pkg/errors"
)

// Tag is a label identified by its name. Names are case-sensitive; two
// names differing only in case are distinct tags.
type Tag struct {
	Name      string
	CreatedAt time.Time
}

// NewTag creates a Tag. The name must be non-empty after trimming.
func NewTag(name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, appErrors.NewValidation("tag name cannot be empty")
	}

	return Tag{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}
