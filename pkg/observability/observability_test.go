package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestMetrics_RecordCommandExecution(t *testing.T) {
	client := &fakeCloudWatch{}
	m := NewMetrics("MappaMentis", client, zap.NewNop())

	m.RecordCommandExecution(context.Background(), "AddNodeCommand", 42*time.Millisecond, errors.New("boom"))

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "MappaMentis", aws.ToString(in.Namespace))
	require.Len(t, in.MetricData, 2)

	latency := in.MetricData[0]
	assert.Equal(t, "CommandExecution", aws.ToString(latency.MetricName))
	assert.Equal(t, 42.0, aws.ToFloat64(latency.Value))
	assert.Equal(t, types.StandardUnitMilliseconds, latency.Unit)
	assert.Equal(t, "failure", aws.ToString(latency.Dimensions[1].Value))

	assert.Equal(t, "CommandCount", aws.ToString(in.MetricData[1].MetricName))
}

func TestMetrics_RecordBusinessMetricSortsDimensions(t *testing.T) {
	client := &fakeCloudWatch{}
	m := NewMetrics("MappaMentis", client, zap.NewNop())

	m.RecordBusinessMetric(context.Background(), "IdeasCaptured", 1, map[string]string{"Category": "Work", "Area": "Home"})

	datum := client.inputs[0].MetricData[0]
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "Area", aws.ToString(datum.Dimensions[0].Name))
	assert.Equal(t, "Category", aws.ToString(datum.Dimensions[1].Name))
	assert.Equal(t, types.StandardUnitCount, datum.Unit)
}

func TestMetrics_FailuresAreSwallowed(t *testing.T) {
	client := &fakeCloudWatch{err: errors.New("throttled")}
	m := NewMetrics("MappaMentis", client, zap.NewNop())

	assert.NotPanics(t, func() {
		m.RecordBusinessMetric(context.Background(), "NodesAdded", 1, nil)
	})
	assert.Len(t, client.inputs, 1)

	silent := NewMetrics("MappaMentis", nil, zap.NewNop())
	assert.NotPanics(t, func() {
		silent.RecordCommandExecution(context.Background(), "X", time.Second, nil)
	})
}

func TestTracer_DisabledRunsFunctionDirectly(t *testing.T) {
	tracer := NewTracer("mappamentis", false)

	called := false
	err := tracer.TraceFunction(context.Background(), "work", func(ctx context.Context) error {
		called = true
		return errors.New("failed")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "failed")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	tracer.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestTracer_NoSegmentRunsUntraced(t *testing.T) {
	tracer := NewTracer("mappamentis", true)

	called := false
	require.NoError(t, tracer.TraceFunction(context.Background(), "work", func(ctx context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}
