// Package memory provides an in-memory implementation of the store
// contract. It mirrors the DynamoDB table layout closely enough for the
// repository to run unchanged in tests: partition queries come back in
// sort-key order and secondary-index queries match items carrying the
// index attributes.
package memory

import (
	"context"
	"sort"
	"sync"

	"tabman-backend/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store is a mutex-guarded map of items keyed by primary key.
type Store struct {
	mu    sync.RWMutex
	items map[store.Key]store.Item

	forcedErrs      map[string]error
	unprocessedOnce int
	batchWriteCalls int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		items:      make(map[store.Key]store.Item),
		forcedErrs: make(map[string]error),
	}
}

// SetError forces the named operation ("PutItem", "Query", ...) to return
// the given error on every subsequent call until cleared with a nil error.
func (s *Store) SetError(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.forcedErrs, op)
		return
	}
	s.forcedErrs[op] = err
}

// FailBatchWriteOnce makes the next BatchWrite call report up to n of its
// operations as unprocessed, without applying them.
func (s *Store) FailBatchWriteOnce(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unprocessedOnce = n
}

// BatchWriteCalls reports how many times BatchWrite has been invoked.
func (s *Store) BatchWriteCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batchWriteCalls
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) forced(op string) error {
	return s.forcedErrs[op]
}

// PutItem creates or overwrites the item under its own key attributes.
func (s *Store) PutItem(ctx context.Context, item store.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.forced("PutItem"); err != nil {
		return err
	}

	s.items[keyOf(item)] = cloneItem(item)
	return nil
}

// GetItem returns the item under the given key, if present.
func (s *Store) GetItem(ctx context.Context, key store.Key) (store.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.forced("GetItem"); err != nil {
		return nil, false, err
	}

	item, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return cloneItem(item), true, nil
}

// DeleteItem removes the item under the given key. Absent items are a
// no-op success.
func (s *Store) DeleteItem(ctx context.Context, key store.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.forced("DeleteItem"); err != nil {
		return err
	}

	delete(s.items, key)
	return nil
}

// Query returns all items in the partition, sorted by the relevant sort
// attribute. Index queries match only items that carry the index key
// attributes, mirroring a sparse GSI.
func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.forced("Query"); err != nil {
		return nil, err
	}

	pkAttr, skAttr := store.IndexKeyAttributes(q.IndexName)

	type entry struct {
		sortKey string
		item    store.Item
	}
	var matched []entry
	for _, item := range s.items {
		pk, ok := stringAttr(item, pkAttr)
		if !ok || pk != q.PartitionKey {
			continue
		}
		sk, ok := stringAttr(item, skAttr)
		if !ok {
			continue
		}
		if q.SortKeyPrefix != "" && !hasPrefix(sk, q.SortKeyPrefix) {
			continue
		}
		matched = append(matched, entry{sortKey: sk, item: cloneItem(item)})
	}

	sort.Slice(matched, func(i, j int) bool {
		if q.Descending {
			return matched[i].sortKey > matched[j].sortKey
		}
		return matched[i].sortKey < matched[j].sortKey
	})

	items := make([]store.Item, 0, len(matched))
	for _, e := range matched {
		items = append(items, e.item)
	}
	return items, nil
}

// BatchWrite applies the operations, honoring any injected unprocessed
// window first.
func (s *Store) BatchWrite(ctx context.Context, ops []store.WriteOp) ([]store.WriteOp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchWriteCalls++
	if err := s.forced("BatchWrite"); err != nil {
		return nil, err
	}

	var unprocessed []store.WriteOp
	if s.unprocessedOnce > 0 {
		n := s.unprocessedOnce
		if n > len(ops) {
			n = len(ops)
		}
		unprocessed = append(unprocessed, ops[:n]...)
		ops = ops[n:]
		s.unprocessedOnce = 0
	}

	for _, op := range ops {
		switch {
		case op.Put != nil:
			s.items[keyOf(op.Put)] = cloneItem(op.Put)
		case op.Delete != nil:
			delete(s.items, *op.Delete)
		}
	}
	return unprocessed, nil
}

func keyOf(item store.Item) store.Key {
	pk, _ := stringAttr(item, store.AttrPK)
	sk, _ := stringAttr(item, store.AttrSK)
	return store.Key{PartitionKey: pk, SortKey: sk}
}

func stringAttr(item store.Item, name string) (string, bool) {
	attr, ok := item[name].(*types.AttributeValueMemberS)
	if !ok || attr.Value == "" {
		return "", false
	}
	return attr.Value, true
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func cloneItem(item store.Item) store.Item {
	out := make(store.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
