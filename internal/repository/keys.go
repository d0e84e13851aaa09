package repository

import "tabman-backend/internal/store"

// Entity type values double as partition keys. All three entity kinds
// share one table and are distinguished by partition.
const (
	entityTab    = "tab"
	entityTag    = "tag"
	entityTabTag = "tab_tag"
)

// assocSeparator joins tab id and tag name into the association sort key.
// The composite key is deterministic, so attaching the same tag twice
// overwrites the same item instead of creating a duplicate row.
const assocSeparator = "#"

// timeLayout is a fixed-width RFC3339 variant. Trailing zeros are kept so
// lexicographic order on the created-at index matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func tabKey(id string) store.Key {
	return store.Key{PartitionKey: entityTab, SortKey: id}
}

func tagKey(name string) store.Key {
	return store.Key{PartitionKey: entityTag, SortKey: name}
}

func tabTagKey(tabID, tagName string) store.Key {
	return store.Key{PartitionKey: entityTabTag, SortKey: tabID + assocSeparator + tagName}
}

// tabTagSortPrefix narrows an association query to a single tab.
func tabTagSortPrefix(tabID string) string {
	return tabID + assocSeparator
}
