// Package dynamo implements the store contract against AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
package dynamo

import (
	"context"
	"time"

	"tabman-backend/internal/store"
	appErrors "tabman-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxBatchWriteItems is the DynamoDB BatchWriteItem request limit.
const maxBatchWriteItems = 25

// Store is the DynamoDB-backed implementation of store.Store. Every call
// is bounded by the configured operation timeout so no caller blocks
// indefinitely on the backend.
type Store struct {
	client    *dynamodb.Client
	tableName string
	indexes   map[string]string // logical index name -> physical index name
	opTimeout time.Duration
}

// Config carries the table layout the store operates on.
type Config struct {
	TableName          string
	CreatedAtIndexName string
	TagIndexName       string
	OperationTimeout   time.Duration
}

// New creates a DynamoDB store for the given table.
func New(client *dynamodb.Client, cfg Config) *Store {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	return &Store{
		client:    client,
		tableName: cfg.TableName,
		indexes: map[string]string{
			store.IndexCreatedAt: cfg.CreatedAtIndexName,
			store.IndexTag:       cfg.TagIndexName,
		},
		opTimeout: cfg.OperationTimeout,
	}
}

func (s *Store) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// PutItem creates or overwrites a single item.
func (s *Store) PutItem(ctx context.Context, item store.Item) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "put item failed")
	}
	return nil
}

// GetItem performs a strongly consistent point read. Absence is reported
// through the found flag, not as an error.
func (s *Store) GetItem(ctx context.Context, key store.Key) (store.Item, bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            primaryKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, "get item failed")
	}
	if result.Item == nil {
		return nil, false, nil
	}
	return store.Item(result.Item), true, nil
}

// DeleteItem removes a single item. Deleting an absent item is a no-op.
func (s *Store) DeleteItem(ctx context.Context, key store.Key) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       primaryKey(key),
	})
	if err != nil {
		return appErrors.Wrap(err, "delete item failed")
	}
	return nil
}

// Query reads a partition, optionally through a secondary index and
// narrowed by a sort-key prefix. The full result set is drained; reads
// through an index may lag the most recent writes.
func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Item, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	pkAttr, skAttr := store.IndexKeyAttributes(q.IndexName)
	keyCond := expression.Key(pkAttr).Equal(expression.Value(q.PartitionKey))
	if q.SortKeyPrefix != "" {
		keyCond = keyCond.And(expression.Key(skAttr).BeginsWith(q.SortKeyPrefix))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build query expression")
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.Descending),
	}
	if q.IndexName != "" {
		physical, ok := s.indexes[q.IndexName]
		if !ok || physical == "" {
			return nil, appErrors.NewStorage("unknown index "+q.IndexName, nil)
		}
		input.IndexName = aws.String(physical)
	}

	var items []store.Item
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, "query failed")
		}
		for _, item := range page.Items {
			items = append(items, store.Item(item))
		}
	}
	return items, nil
}

// BatchWrite executes the operations in chunks of the DynamoDB batch
// limit. Operations the backend reports as unprocessed are returned for
// the caller to retry.
func (s *Store) BatchWrite(ctx context.Context, ops []store.WriteOp) ([]store.WriteOp, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var unprocessed []store.WriteOp
	for start := 0; start < len(ops); start += maxBatchWriteItems {
		end := start + maxBatchWriteItems
		if end > len(ops) {
			end = len(ops)
		}
		chunk := ops[start:end]

		requests := make([]types.WriteRequest, 0, len(chunk))
		for _, op := range chunk {
			if op.Put != nil {
				requests = append(requests, types.WriteRequest{
					PutRequest: &types.PutRequest{Item: op.Put},
				})
			} else if op.Delete != nil {
				requests = append(requests, types.WriteRequest{
					DeleteRequest: &types.DeleteRequest{Key: primaryKey(*op.Delete)},
				})
			}
		}

		result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.tableName: requests},
		})
		if err != nil {
			return nil, appErrors.Wrap(err, "batch write failed")
		}
		unprocessed = append(unprocessed, fromWriteRequests(result.UnprocessedItems[s.tableName])...)
	}
	return unprocessed, nil
}

func primaryKey(key store.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		store.AttrPK: &types.AttributeValueMemberS{Value: key.PartitionKey},
		store.AttrSK: &types.AttributeValueMemberS{Value: key.SortKey},
	}
}

func fromWriteRequests(requests []types.WriteRequest) []store.WriteOp {
	var ops []store.WriteOp
	for _, req := range requests {
		switch {
		case req.PutRequest != nil:
			ops = append(ops, store.WriteOp{Put: store.Item(req.PutRequest.Item)})
		case req.DeleteRequest != nil:
			key := req.DeleteRequest.Key
			pk, _ := key[store.AttrPK].(*types.AttributeValueMemberS)
			sk, _ := key[store.AttrSK].(*types.AttributeValueMemberS)
			if pk == nil || sk == nil {
				continue
			}
			ops = append(ops, store.WriteOp{Delete: &store.Key{PartitionKey: pk.Value, SortKey: sk.Value}})
		}
	}
	return ops
}
