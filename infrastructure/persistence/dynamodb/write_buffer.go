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
	pkgerrors "mappamentis/pkg/errors"
)

// maxTransactItems is the DynamoDB limit on actions per transaction
const maxTransactItems = 100

// writeBuffer stages writes in the caller's unit of work until commit sends them as transactions
type writeBuffer struct {
	client    API
	tableName string
	kind      string
	logger    *zap.Logger
}

func newWriteBuffer(client API, tableName, kind string, logger *zap.Logger) *writeBuffer {
	return &writeBuffer{
		client:    client,
		tableName: tableName,
		kind:      kind,
		logger:    logger,
	}
}

// stagePut queues item guarded by the version it is expected to replace.
// An expected version of 0 means the item must not exist yet.
func (b *writeBuffer) stagePut(ctx context.Context, item interface{}, expected int) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal " + b.kind).WithCause(err)
	}

	var cond expression.ConditionBuilder
	if expected == 0 {
		cond = expression.AttributeNotExists(expression.Name("PK"))
	} else {
		cond = expression.Name("Version").Equal(expression.Value(expected))
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build condition").WithCause(err)
	}

	return b.append(ctx, types.TransactWriteItem{
		Put: &types.Put{
			TableName:                 aws.String(b.tableName),
			Item:                      av,
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		},
	})
}

// stageDelete queues an unconditional removal
func (b *writeBuffer) stageDelete(ctx context.Context, pk string) error {
	return b.append(ctx, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(b.tableName),
			Key:       itemKey(pk),
		},
	})
}

func (b *writeBuffer) append(ctx context.Context, item types.TransactWriteItem) error {
	if !ports.StageWrite(ctx, b, item) {
		return pkgerrors.NewInternalError(b.kind + " write staged outside a unit of work")
	}
	return nil
}

// commit sends the caller's staged writes in transactions of up to maxTransactItems.
// They leave the unit of work whether or not the commit succeeds.
func (b *writeBuffer) commit(ctx context.Context) error {
	staged := ports.TakeWrites[types.TransactWriteItem](ctx, b)

	for start := 0; start < len(staged); start += maxTransactItems {
		end := min(start+maxTransactItems, len(staged))
		_, err := b.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: staged[start:end],
		})
		if err != nil {
			return translateError(b.logger, "TransactWriteItems", b.kind, err)
		}
	}

	if len(staged) > 0 {
		b.logger.Debug("Committed writes",
			zap.String("kind", b.kind),
			zap.Int("count", len(staged)),
		)
	}
	return nil
}

func itemKey(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}
