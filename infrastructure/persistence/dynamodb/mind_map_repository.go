package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// MindMapRepository persists mind maps as one item per map
type MindMapRepository struct {
	client    API
	tableName string
	writes    *writeBuffer
	logger    *zap.Logger
	opts      []aggregates.Option
}

// NewMindMapRepository creates a repository over tableName
func NewMindMapRepository(client API, tableName string, logger *zap.Logger, opts ...aggregates.Option) *MindMapRepository {
	return &MindMapRepository{
		client:    client,
		tableName: tableName,
		writes:    newWriteBuffer(client, tableName, "mind map", logger),
		logger:    logger,
		opts:      opts,
	}
}

// Load retrieves a map by its ID
func (r *MindMapRepository) Load(ctx context.Context, id valueobjects.MapID) (*aggregates.MindMap, error) {
	item, found, err := r.get(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.NewNotFoundError("mind map").WithDetail("id", id.String())
	}
	return aggregates.RehydrateMindMap(item.snapshot(), r.opts...)
}

func (r *MindMapRepository) get(ctx context.Context, id string) (mapItem, bool, error) {
	var item mapItem

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(mapPK(id)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return item, false, translateError(r.logger, "GetItem", "mind map", err)
	}
	if len(result.Item) == 0 {
		return item, false, nil
	}

	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return item, false, pkgerrors.NewDatabaseError("UnmarshalMap", err)
	}
	return item, true, nil
}

// LoadAll retrieves every stored map
func (r *MindMapRepository) LoadAll(ctx context.Context) ([]*aggregates.MindMap, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(mapsPartition))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build key condition").WithCause(err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(gsi1Name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var maps []*aggregates.MindMap
	err = queryPages(ctx, r.client, input, func(raw map[string]types.AttributeValue) error {
		var item mapItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return pkgerrors.NewDatabaseError("UnmarshalMap", err)
		}
		m, err := aggregates.RehydrateMindMap(item.snapshot(), r.opts...)
		if err != nil {
			return err
		}
		maps = append(maps, m)
		return nil
	})
	if err != nil {
		return nil, translateError(r.logger, "Query", "mind map", err)
	}
	return maps, nil
}

// Save stages a map in the caller's unit of work
func (r *MindMapRepository) Save(ctx context.Context, mindMap *aggregates.MindMap) error {
	if mindMap == nil {
		return pkgerrors.NewInvalidArgumentError("mind map cannot be nil")
	}
	return r.writes.stagePut(ctx, newMapItem(mindMap.Snapshot()), mindMap.PersistedVersion())
}

// Delete stages removal of a map
func (r *MindMapRepository) Delete(ctx context.Context, id valueobjects.MapID) error {
	return r.writes.stageDelete(ctx, mapPK(id.String()))
}

// Exists checks whether a map is stored
func (r *MindMapRepository) Exists(ctx context.Context, id valueobjects.MapID) (bool, error) {
	_, found, err := r.get(ctx, id.String())
	return found, err
}

// Commit flushes the writes staged in the caller's unit of work
func (r *MindMapRepository) Commit(ctx context.Context) error {
	return r.writes.commit(ctx)
}

// queryPages runs input until the last page, handing each item to fn
func queryPages(ctx context.Context, client API, input *dynamodb.QueryInput, fn func(map[string]types.AttributeValue) error) error {
	for {
		result, err := client.Query(ctx, input)
		if err != nil {
			return err
		}
		for _, raw := range result.Items {
			if err := fn(raw); err != nil {
				return err
			}
		}
		if len(result.LastEvaluatedKey) == 0 {
			return nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

var _ ports.MindMapRepository = (*MindMapRepository)(nil)
