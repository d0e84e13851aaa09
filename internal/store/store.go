// Package store defines the generic key-value contract the repository is
// built on. Implementations provide per-item atomic put/delete, strongly
// consistent point reads, partition queries (optionally through a secondary
// index), and best-effort batch writes. There are no multi-item
// transactions across partitions.
package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of the primary key and the secondary index projections.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
)

// Logical index names. Implementations map these to the physical secondary
// indexes configured on the table.
const (
	// IndexCreatedAt projects (entity type, created_at) for recency-ordered
	// listings of a given entity kind.
	IndexCreatedAt = "CreatedAtIndex"
	// IndexTag projects (tag name, tab id) over association rows for
	// "all tabs with this tag" lookups.
	IndexTag = "TagIndex"
)

// Item is a stored record in DynamoDB attribute-value form. Every item
// carries its own key attributes.
type Item map[string]types.AttributeValue

// Key identifies a single item by primary key.
type Key struct {
	PartitionKey string
	SortKey      string
}

// Query describes a partition read, optionally through a secondary index
// and optionally narrowed by a sort-key prefix.
type Query struct {
	PartitionKey  string
	SortKeyPrefix string // begins_with condition on the sort key; empty matches all
	IndexName     string // empty queries the primary key
	Descending    bool   // reverse sort-key order
}

// WriteOp is a single element of a batch write. Exactly one of Put or
// Delete is set.
type WriteOp struct {
	Put    Item
	Delete *Key
}

// Store is the key-value contract. Absence is not an error at this layer:
// GetItem reports it through the found flag, and deleting an absent item
// succeeds. BatchWrite may return a subset of operations as unprocessed;
// callers retry those.
type Store interface {
	PutItem(ctx context.Context, item Item) error
	GetItem(ctx context.Context, key Key) (Item, bool, error)
	DeleteItem(ctx context.Context, key Key) error
	Query(ctx context.Context, q Query) ([]Item, error)
	BatchWrite(ctx context.Context, ops []WriteOp) ([]WriteOp, error)
}

// IndexKeyAttributes returns the partition and sort attribute names used by
// the given logical index, defaulting to the primary key.
func IndexKeyAttributes(indexName string) (pk, sk string) {
	switch indexName {
	case IndexCreatedAt:
		return AttrGSI1PK, AttrGSI1SK
	case IndexTag:
		return AttrGSI2PK, AttrGSI2SK
	default:
		return AttrPK, AttrSK
	}
}
