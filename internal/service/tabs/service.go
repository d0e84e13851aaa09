// Package tabs provides the service layer over the repository: the
// operations handlers call directly, plus search and statistics composed
// from repeated repository queries. The service holds no storage state of
// its own and never talks to the store directly.
package tabs

import (
	"context"
	"sort"
	"strings"

	"tabman-backend/internal/domain"
	"tabman-backend/internal/repository"
	appErrors "tabman-backend/pkg/errors"

	"go.uber.org/zap"
)

// Search kinds accepted by Search.
const (
	SearchKindAll  = "all"
	SearchKindName = "name"
	SearchKindTag  = "tag"
)

const (
	// minQueryLength rejects one-character queries that would match almost
	// everything.
	minQueryLength = 2
	// maxSearchResults caps how many matches are enriched and returned.
	maxSearchResults = 50
)

// Stats summarizes stored entity counts. The counts are computed by
// querying each partition, so cost grows with total item count; fine for
// a few thousand tabs, not for millions.
type Stats struct {
	TotalTabs         int
	ArchivedTabs      int
	ActiveTabs        int
	TotalTags         int
	TotalAssociations int
}

// Service exposes the tab manager operations to the transport layer.
type Service struct {
	repo   repository.Repository
	logger *zap.Logger
}

// NewService creates a service over the given repository.
func NewService(repo repository.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SaveTab persists a new tab.
func (s *Service) SaveTab(ctx context.Context, url, title, notes string) (domain.Tab, error) {
	tab, err := s.repo.SaveTab(ctx, url, title, notes)
	if err != nil {
		return domain.Tab{}, err
	}
	s.logger.Info("tab saved", zap.String("tab_id", tab.ID), zap.String("url", tab.URL))
	return tab, nil
}

// GetTab returns a tab with its attached tag names.
func (s *Service) GetTab(ctx context.Context, id string) (domain.TabWithTags, error) {
	return s.repo.GetTab(ctx, id)
}

// ListTabs returns tabs matching the archived flag, newest first.
func (s *Service) ListTabs(ctx context.Context, archived bool) ([]domain.Tab, error) {
	return s.repo.ListTabs(ctx, archived)
}

// DeleteTab removes a tab and all of its tag associations.
func (s *Service) DeleteTab(ctx context.Context, id string) error {
	if err := s.repo.DeleteTab(ctx, id); err != nil {
		return err
	}
	s.logger.Info("tab deleted", zap.String("tab_id", id))
	return nil
}

// SetArchived flips the archived flag on a tab.
func (s *Service) SetArchived(ctx context.Context, id string, archived bool) (domain.Tab, error) {
	return s.repo.SetArchived(ctx, id, archived)
}

// ListTags returns all tags, including ones with no remaining
// associations.
func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.ListTags(ctx)
}

// AttachTag attaches a tag to a tab, creating the tag on first use.
func (s *Service) AttachTag(ctx context.Context, tabID, tagName string) error {
	return s.repo.AttachTag(ctx, tabID, tagName)
}

// DetachTag removes a tag from a tab without deleting the tag itself.
func (s *Service) DetachTag(ctx context.Context, tabID, tagName string) error {
	return s.repo.DetachTag(ctx, tabID, tagName)
}

// Search finds tabs by title/url substring, by exact tag name, or both.
// Matches are de-duplicated by tab id, ordered newest first, capped, and
// enriched with their tag names.
func (s *Service) Search(ctx context.Context, query, kind string) ([]domain.TabWithTags, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return nil, appErrors.NewValidation("search query must be at least 2 characters")
	}
	if kind == "" {
		kind = SearchKindAll
	}

	var matched []domain.Tab
	switch kind {
	case SearchKindName:
		all, err := s.repo.AllTabs(ctx)
		if err != nil {
			return nil, err
		}
		matched = matchByName(all, query)
	case SearchKindTag:
		tabs, err := s.repo.TabsByTag(ctx, query)
		if err != nil {
			return nil, err
		}
		matched = tabs
	case SearchKindAll:
		all, err := s.repo.AllTabs(ctx)
		if err != nil {
			return nil, err
		}
		byTag, err := s.repo.TabsByTag(ctx, query)
		if err != nil {
			return nil, err
		}
		matched = dedupe(append(matchByName(all, query), byTag...))
	default:
		return nil, appErrors.NewValidation("unknown search kind '" + kind + "'")
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > maxSearchResults {
		matched = matched[:maxSearchResults]
	}

	results := make([]domain.TabWithTags, 0, len(matched))
	for _, tab := range matched {
		enriched, err := s.repo.GetTab(ctx, tab.ID)
		if err != nil {
			if appErrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		results = append(results, enriched)
	}
	return results, nil
}

// Stats counts stored tabs, tags, and associations.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	tabsList, err := s.repo.AllTabs(ctx)
	if err != nil {
		return Stats{}, err
	}
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return Stats{}, err
	}
	assocs, err := s.repo.AllAssociations(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalTabs:         len(tabsList),
		TotalTags:         len(tags),
		TotalAssociations: len(assocs),
	}
	for _, tab := range tabsList {
		if tab.Archived {
			stats.ArchivedTabs++
		} else {
			stats.ActiveTabs++
		}
	}
	return stats, nil
}

func matchByName(tabs []domain.Tab, query string) []domain.Tab {
	q := strings.ToLower(query)
	var matched []domain.Tab
	for _, tab := range tabs {
		if strings.Contains(strings.ToLower(tab.Title), q) ||
			strings.Contains(strings.ToLower(tab.URL), q) {
			matched = append(matched, tab)
		}
	}
	return matched
}

func dedupe(tabs []domain.Tab) []domain.Tab {
	seen := make(map[string]bool, len(tabs))
	var out []domain.Tab
	for _, tab := range tabs {
		if seen[tab.ID] {
			continue
		}
		seen[tab.ID] = true
		out = append(out, tab)
	}
	return out
}
