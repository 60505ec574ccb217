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

// TimerRepository persists pomodoro timers, indexed under their map on GSI1
type TimerRepository struct {
	client    API
	tableName string
	writes    *writeBuffer
	logger    *zap.Logger
	opts      []aggregates.Option
}

// NewTimerRepository creates a repository over tableName
func NewTimerRepository(client API, tableName string, logger *zap.Logger, opts ...aggregates.Option) *TimerRepository {
	return &TimerRepository{
		client:    client,
		tableName: tableName,
		writes:    newWriteBuffer(client, tableName, "timer", logger),
		logger:    logger,
		opts:      opts,
	}
}

// Load retrieves a timer by its ID
func (r *TimerRepository) Load(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(timerPK(id.String())),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, translateError(r.logger, "GetItem", "timer", err)
	}
	if len(result.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("timer").WithDetail("id", id.String())
	}

	var item timerItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("UnmarshalMap", err)
	}
	return aggregates.RehydratePomodoroTimer(item.snapshot(), r.opts...)
}

// LoadByMap retrieves every timer attached to a map
func (r *TimerRepository) LoadByMap(ctx context.Context, mapID valueobjects.MapID) ([]*aggregates.PomodoroTimer, error) {
	keyCond := expression.KeyAnd(
		expression.Key("GSI1PK").Equal(expression.Value(mapPK(mapID.String()))),
		expression.Key("GSI1SK").BeginsWith(timerKeyPrefix),
	)
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

	var timers []*aggregates.PomodoroTimer
	err = queryPages(ctx, r.client, input, func(raw map[string]types.AttributeValue) error {
		var item timerItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return pkgerrors.NewDatabaseError("UnmarshalMap", err)
		}
		timer, err := aggregates.RehydratePomodoroTimer(item.snapshot(), r.opts...)
		if err != nil {
			return err
		}
		timers = append(timers, timer)
		return nil
	})
	if err != nil {
		return nil, translateError(r.logger, "Query", "timer", err)
	}
	return timers, nil
}

// Save stages a timer in the caller's unit of work
func (r *TimerRepository) Save(ctx context.Context, timer *aggregates.PomodoroTimer) error {
	if timer == nil {
		return pkgerrors.NewInvalidArgumentError("timer cannot be nil")
	}
	return r.writes.stagePut(ctx, newTimerItem(timer.Snapshot()), timer.PersistedVersion())
}

// Delete stages removal of a timer
func (r *TimerRepository) Delete(ctx context.Context, id valueobjects.TimerID) error {
	return r.writes.stageDelete(ctx, timerPK(id.String()))
}

// Commit flushes the writes staged in the caller's unit of work
func (r *TimerRepository) Commit(ctx context.Context) error {
	return r.writes.commit(ctx)
}

var _ ports.TimerRepository = (*TimerRepository)(nil)
