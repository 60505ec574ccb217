package observability

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client Metrics uses
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics handles application metrics and monitoring
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
	now       func() time.Time
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordCommandExecution records latency and a count for a command or query
func (m *Metrics) RecordCommandExecution(ctx context.Context, commandName string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	dims := []types.Dimension{
		{Name: aws.String("CommandName"), Value: aws.String(commandName)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}

	m.put(ctx,
		types.MetricDatum{
			MetricName: aws.String("CommandExecution"),
			Dimensions: dims,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(m.now()),
		},
		types.MetricDatum{
			MetricName: aws.String("CommandCount"),
			Dimensions: dims,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(m.now()),
		},
	)
}

// RecordBusinessMetric records a domain counter such as NodesAdded or PomodorosStarted
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricName string, value float64, dimensions map[string]string) {
	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	cwDimensions := make([]types.Dimension, 0, len(names))
	for _, name := range names {
		cwDimensions = append(cwDimensions, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(dimensions[name]),
		})
	}

	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(metricName),
		Dimensions: cwDimensions,
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(m.now()),
	})
}

// put sends data and logs failures; metrics never fail the operation being measured
func (m *Metrics) put(ctx context.Context, data ...types.MetricDatum) {
	if m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Warn("Failed to send metrics",
			zap.String("namespace", m.namespace),
			zap.Int("datums", len(data)),
			zap.Error(err),
		)
	}
}

// NoopMetrics discards everything; used when metrics are disabled
type NoopMetrics struct{}

func (NoopMetrics) RecordCommandExecution(context.Context, string, time.Duration, error) {}

func (NoopMetrics) RecordBusinessMetric(context.Context, string, float64, map[string]string) {}
