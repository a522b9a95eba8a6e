package textgen_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

type recordingMeter struct {
	mu       sync.Mutex
	requests []tg.RequestEvent
	results  []tg.ResultEvent
	ids      []string
}

func (m *recordingMeter) OnRequest(ctx context.Context, e tg.RequestEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, e)
	m.ids = append(m.ids, transport.RequestID(ctx))
}

func (m *recordingMeter) OnResult(_ context.Context, e tg.ResultEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, e)
}

func TestCore_ObserveSuccess(t *testing.T) {
	m := &recordingMeter{}
	core := tg.NewCore(tg.ClientOpenAI, tg.NewSettings(tg.WithMeter(m)))

	var seen string
	err := core.Observe(context.Background(), tg.OpGenerate, "gpt", func(ctx context.Context) (*tg.Usage, error) {
		seen = transport.RequestID(ctx)
		return tg.NewUsage(tg.Int64Ptr(1), tg.Int64Ptr(2), tg.Int64Ptr(3)), nil
	})
	require.NoError(t, err)

	require.Len(t, m.requests, 1)
	require.Len(t, m.results, 1)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, m.requests[0].RequestID)
	assert.Equal(t, seen, m.ids[0])
	assert.Equal(t, tg.ClientOpenAI, m.results[0].Client)
	assert.Equal(t, "gpt", m.results[0].Model)
	assert.True(t, m.results[0].Success)
	assert.Equal(t, int64(3), *m.results[0].Usage.TotalTokens)
}

func TestCore_ObserveWrapsFailure(t *testing.T) {
	m := &recordingMeter{}
	core := tg.NewCore(tg.ClientGrok, tg.NewSettings(tg.WithMeter(m)))

	err := core.Observe(context.Background(), tg.OpModels, "", func(context.Context) (*tg.Usage, error) {
		return nil, tg.ErrRateLimited
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, tg.ErrRateLimited)

	var ce *tg.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, tg.ClientGrok, ce.Client)
	assert.Equal(t, tg.OpModels, ce.Op)

	require.Len(t, m.results, 1)
	assert.False(t, m.results[0].Success)
	assert.Equal(t, err, m.results[0].Error)
}

func TestCore_ObserveAppliesTimeout(t *testing.T) {
	core := tg.NewCore(tg.ClientOpenAI, tg.NewSettings(tg.WithTimeout(10*time.Millisecond)))

	err := core.Observe(context.Background(), tg.OpGenerate, "m", func(ctx context.Context) (*tg.Usage, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCore_KeepsCallerRequestID(t *testing.T) {
	m := &recordingMeter{}
	core := tg.NewCore(tg.ClientOpenAI, tg.NewSettings(tg.WithMeter(m)))

	ctx := transport.WithRequestID(context.Background(), "caller-id")
	require.NoError(t, core.Observe(ctx, tg.OpModels, "", func(context.Context) (*tg.Usage, error) { return nil, nil }))
	assert.Equal(t, "caller-id", m.requests[0].RequestID)
}

func TestCore_DefaultsFeedBuilder(t *testing.T) {
	core := tg.NewCore(tg.ClientOpenAI, tg.NewSettings(
		tg.WithDefaultModel("default-model"),
		tg.WithDefaultTemperature(0.66),
	))

	b := core.NewRequestBuilder()
	assert.Equal(t, "default-model", b.Model)
	assert.Equal(t, 0.66, *b.Temperature)

	core.DefaultModel = "changed"
	assert.Equal(t, "changed", core.NewRequestBuilder().Model)
}

func TestErrorHelpers(t *testing.T) {
	se := &transport.StatusError{StatusCode: 502, Err: tg.ErrProviderUnavailable}
	wrapped := &tg.ClientError{Client: tg.ClientOpenAI, Op: tg.OpGenerate, Err: se}

	assert.True(t, tg.IsTransport(wrapped))
	assert.False(t, tg.IsConfiguration(wrapped))
	assert.Equal(t, 502, tg.StatusCode(wrapped))

	assert.True(t, tg.IsTransport(tg.ErrTimeout))
	assert.True(t, tg.IsDecode(&tg.ClientError{Err: tg.ErrDecode}))
	assert.True(t, tg.IsConfiguration(tg.Configurationf("azure: resource is required")))
	assert.Equal(t, 0, tg.StatusCode(tg.ErrDecode))
}
