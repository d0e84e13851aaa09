// Package repository implements the tab manager's data access layer over
// the generic store contract. All three entity kinds live in one table,
// keyed as (entity type, id); see keys.go for the encoding and records.go
// for the stored item shapes.
package repository

import (
	"context"
	"fmt"
	"strings"

	"tabman-backend/internal/domain"
	"tabman-backend/internal/store"
	appErrors "tabman-backend/pkg/errors"
)

// Repository is the operation surface over tabs, tags, and their
// associations. Implementations are stateless and safe for concurrent use;
// all state lives in the backing store.
type Repository interface {
	SaveTab(ctx context.Context, url, title, notes string) (domain.Tab, error)
	GetTab(ctx context.Context, id string) (domain.TabWithTags, error)
	ListTabs(ctx context.Context, archived bool) ([]domain.Tab, error)
	AllTabs(ctx context.Context) ([]domain.Tab, error)
	DeleteTab(ctx context.Context, id string) error
	SetArchived(ctx context.Context, id string, archived bool) (domain.Tab, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	AttachTag(ctx context.Context, tabID, tagName string) error
	DetachTag(ctx context.Context, tabID, tagName string) error
	TabsByTag(ctx context.Context, tagName string) ([]domain.Tab, error)
	AllAssociations(ctx context.Context) ([]domain.TabTag, error)
}

type tabRepository struct {
	store store.Store
	retry RetryConfig
}

// New creates a repository over the given store.
func New(s store.Store) Repository {
	return &tabRepository{store: s, retry: DefaultRetryConfig()}
}

// NewWithRetryConfig creates a repository with custom cascade-delete retry
// behavior.
func NewWithRetryConfig(s store.Store, retry RetryConfig) Repository {
	return &tabRepository{store: s, retry: retry}
}

// SaveTab validates and persists a new tab.
func (r *tabRepository) SaveTab(ctx context.Context, url, title, notes string) (domain.Tab, error) {
	tab, err := domain.NewTab(url, title, notes)
	if err != nil {
		return domain.Tab{}, err
	}

	item, err := marshalTab(tab)
	if err != nil {
		return domain.Tab{}, err
	}
	if err := r.store.PutItem(ctx, item); err != nil {
		return domain.Tab{}, appErrors.Wrap(err, "failed to save tab")
	}
	return tab, nil
}

// GetTab returns the tab and the names of its attached tags.
func (r *tabRepository) GetTab(ctx context.Context, id string) (domain.TabWithTags, error) {
	tab, err := r.getTab(ctx, id)
	if err != nil {
		return domain.TabWithTags{}, err
	}

	assocs, err := r.associationsForTab(ctx, id)
	if err != nil {
		return domain.TabWithTags{}, err
	}
	tags := make([]string, 0, len(assocs))
	for _, assoc := range assocs {
		tags = append(tags, assoc.TagName)
	}
	return domain.TabWithTags{Tab: tab, Tags: tags}, nil
}

// ListTabs returns all tabs whose archived flag matches, newest first.
func (r *tabRepository) ListTabs(ctx context.Context, archived bool) ([]domain.Tab, error) {
	all, err := r.AllTabs(ctx)
	if err != nil {
		return nil, err
	}
	tabs := make([]domain.Tab, 0, len(all))
	for _, tab := range all {
		if tab.Archived == archived {
			tabs = append(tabs, tab)
		}
	}
	return tabs, nil
}

// AllTabs returns every tab, newest first via the created-at index.
func (r *tabRepository) AllTabs(ctx context.Context) ([]domain.Tab, error) {
	items, err := r.store.Query(ctx, store.Query{
		PartitionKey: entityTab,
		IndexName:    store.IndexCreatedAt,
		Descending:   true,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query tabs")
	}

	tabs := make([]domain.Tab, 0, len(items))
	for _, item := range items {
		tab, err := unmarshalTab(item)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// DeleteTab removes the tab and every association referencing it. The
// batch is retried with backoff until no operations remain unprocessed, so
// a deleted tab never leaves dangling association rows behind.
func (r *tabRepository) DeleteTab(ctx context.Context, id string) error {
	if _, err := r.getTab(ctx, id); err != nil {
		return err
	}

	assocItems, err := r.store.Query(ctx, store.Query{
		PartitionKey:  entityTabTag,
		SortKeyPrefix: tabTagSortPrefix(id),
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to query associations for delete")
	}

	ops := make([]store.WriteOp, 0, len(assocItems)+1)
	for _, item := range assocItems {
		assoc, err := unmarshalTabTag(item)
		if err != nil {
			return err
		}
		key := tabTagKey(assoc.TabID, assoc.TagName)
		ops = append(ops, store.WriteOp{Delete: &key})
	}
	tabK := tabKey(id)
	ops = append(ops, store.WriteOp{Delete: &tabK})

	return r.batchDeleteWithRetry(ctx, ops)
}

// SetArchived updates only the archived flag, leaving all other attributes
// and associations untouched. Setting the current value again is a no-op.
func (r *tabRepository) SetArchived(ctx context.Context, id string, archived bool) (domain.Tab, error) {
	tab, err := r.getTab(ctx, id)
	if err != nil {
		return domain.Tab{}, err
	}
	if tab.Archived == archived {
		return tab, nil
	}

	tab.Archived = archived
	tab.UpdatedAt = nowUTC()
	item, err := marshalTab(tab)
	if err != nil {
		return domain.Tab{}, err
	}
	if err := r.store.PutItem(ctx, item); err != nil {
		return domain.Tab{}, appErrors.Wrap(err, "failed to update tab archive status")
	}
	return tab, nil
}

// ListTags returns every tag. The tag partition is keyed by name, so the
// primary-key order is already name order.
func (r *tabRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	items, err := r.store.Query(ctx, store.Query{PartitionKey: entityTag})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query tags")
	}

	tags := make([]domain.Tag, 0, len(items))
	for _, item := range items {
		tag, err := unmarshalTag(item)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// AttachTag associates a tag with a tab, creating the tag if it does not
// exist yet. Attaching an already-attached tag overwrites the same
// association item, so concurrent attaches converge on one row.
func (r *tabRepository) AttachTag(ctx context.Context, tabID, tagName string) error {
	assoc, err := domain.NewTabTag(tabID, tagName)
	if err != nil {
		return err
	}

	if _, err := r.getTab(ctx, assoc.TabID); err != nil {
		return err
	}

	// Get-or-create the tag, under the normalized name the association
	// carries. The tag item is keyed by name, so a lost race here is just
	// an overwrite with identical identity.
	_, found, err := r.store.GetItem(ctx, tagKey(assoc.TagName))
	if err != nil {
		return appErrors.Wrap(err, "failed to look up tag")
	}
	if !found {
		tag, err := domain.NewTag(assoc.TagName)
		if err != nil {
			return err
		}
		tagItem, err := marshalTag(tag)
		if err != nil {
			return err
		}
		if err := r.store.PutItem(ctx, tagItem); err != nil {
			return appErrors.Wrap(err, "failed to create tag")
		}
	}

	assocItem, err := marshalTabTag(assoc)
	if err != nil {
		return err
	}
	if err := r.store.PutItem(ctx, assocItem); err != nil {
		return appErrors.Wrap(err, "failed to attach tag")
	}
	return nil
}

// DetachTag removes the association only; the tag itself survives even if
// this was its last attachment.
func (r *tabRepository) DetachTag(ctx context.Context, tabID, tagName string) error {
	tagName = strings.TrimSpace(tagName)
	if _, err := r.getTab(ctx, tabID); err != nil {
		return err
	}

	key := tabTagKey(tabID, tagName)
	_, found, err := r.store.GetItem(ctx, key)
	if err != nil {
		return appErrors.Wrap(err, "failed to look up association")
	}
	if !found {
		return appErrors.NewNotFound(entityTabTag,
			fmt.Sprintf("tag '%s' is not attached to tab '%s'", tagName, tabID))
	}

	if err := r.store.DeleteItem(ctx, key); err != nil {
		return appErrors.Wrap(err, "failed to detach tag")
	}
	return nil
}

// TabsByTag resolves all tabs carrying the given tag through the tag
// index. Associations whose tab has vanished mid-cascade are skipped.
func (r *tabRepository) TabsByTag(ctx context.Context, tagName string) ([]domain.Tab, error) {
	items, err := r.store.Query(ctx, store.Query{
		PartitionKey: tagName,
		IndexName:    store.IndexTag,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query tag index")
	}

	var tabs []domain.Tab
	for _, item := range items {
		assoc, err := unmarshalTabTag(item)
		if err != nil {
			return nil, err
		}
		tab, err := r.getTab(ctx, assoc.TabID)
		if err != nil {
			if appErrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// AllAssociations returns every tab-tag association.
func (r *tabRepository) AllAssociations(ctx context.Context) ([]domain.TabTag, error) {
	items, err := r.store.Query(ctx, store.Query{PartitionKey: entityTabTag})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query associations")
	}

	assocs := make([]domain.TabTag, 0, len(items))
	for _, item := range items {
		assoc, err := unmarshalTabTag(item)
		if err != nil {
			return nil, err
		}
		assocs = append(assocs, assoc)
	}
	return assocs, nil
}

// getTab performs the point read for a tab, translating absence into a
// not-found error.
func (r *tabRepository) getTab(ctx context.Context, id string) (domain.Tab, error) {
	item, found, err := r.store.GetItem(ctx, tabKey(id))
	if err != nil {
		return domain.Tab{}, appErrors.Wrap(err, "failed to get tab")
	}
	if !found {
		return domain.Tab{}, appErrors.NewNotFound(entityTab, fmt.Sprintf("tab '%s' not found", id))
	}
	return unmarshalTab(item)
}

func (r *tabRepository) associationsForTab(ctx context.Context, tabID string) ([]domain.TabTag, error) {
	items, err := r.store.Query(ctx, store.Query{
		PartitionKey:  entityTabTag,
		SortKeyPrefix: tabTagSortPrefix(tabID),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query tab associations")
	}

	assocs := make([]domain.TabTag, 0, len(items))
	for _, item := range items {
		assoc, err := unmarshalTabTag(item)
		if err != nil {
			return nil, err
		}
		assocs = append(assocs, assoc)
	}
	return assocs, nil
}

// batchDeleteWithRetry drives a batch to completion, retrying unprocessed
// operations with backoff before surfacing a storage error.
func (r *tabRepository) batchDeleteWithRetry(ctx context.Context, ops []store.WriteOp) error {
	pending := ops
	err := RetryWithBackoff(ctx, r.retry, func() error {
		unprocessed, err := r.store.BatchWrite(ctx, pending)
		if err != nil {
			return err
		}
		if len(unprocessed) > 0 {
			pending = unprocessed
			return RetryableError{
				Err:       fmt.Errorf("%d delete operations unprocessed", len(unprocessed)),
				Retryable: true,
			}
		}
		return nil
	})
	if err != nil {
		return appErrors.Wrap(err, "cascade delete did not complete")
	}
	return nil
}
