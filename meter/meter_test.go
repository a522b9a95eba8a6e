package meter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/meter"
	"github.com/ineyio/textgen/transport"
)

var start = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func success() textgen.ResultEvent {
	return textgen.ResultEvent{
		RequestID: "req-1",
		Client:    textgen.ClientOpenAI,
		Op:        textgen.OpGenerate,
		Model:     "gpt-4o",
		Success:   true,
		Start:     start,
		Duration:  250 * time.Millisecond,
		Usage:     textgen.NewUsage(textgen.Int64Ptr(10), textgen.Int64Ptr(5), nil),
	}
}

func failure() textgen.ResultEvent {
	e := success()
	e.Success = false
	e.Usage = nil
	e.Error = &textgen.ClientError{
		Client: textgen.ClientOpenAI,
		Op:     textgen.OpGenerate,
		Err:    &transport.StatusError{Name: "openai", StatusCode: 429, Err: transport.ErrRateLimited},
	}
	return e
}

func TestLogMeter(t *testing.T) {
	var buf bytes.Buffer
	m := meter.NewLogMeter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx := context.Background()
	m.OnRequest(ctx, textgen.RequestEvent{RequestID: "req-1", Client: textgen.ClientOpenAI, Op: textgen.OpGenerate})
	m.OnResult(ctx, success())
	m.OnResult(ctx, failure())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var ok, bad map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ok))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &bad))

	assert.Equal(t, "result", ok["msg"])
	assert.Equal(t, float64(250), ok["duration_ms"])
	assert.Equal(t, float64(10), ok["input_tokens"])
	assert.Equal(t, float64(-1), ok["total_tokens"])

	assert.Equal(t, "result_error", bad["msg"])
	assert.Equal(t, "WARN", bad["level"])
	assert.Equal(t, float64(429), bad["status"])
}

func TestNewLogMeter_DefaultLogger(t *testing.T) {
	assert.Equal(t, slog.Default(), meter.NewLogMeter(nil).Logger)
}

func TestPrometheusMeter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := meter.NewPrometheusMeter(reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.OnRequest(ctx, textgen.RequestEvent{Client: textgen.ClientOpenAI, Op: textgen.OpGenerate})
	m.OnResult(ctx, success())
	m.OnRequest(ctx, textgen.RequestEvent{Client: textgen.ClientOpenAI, Op: textgen.OpGenerate})
	m.OnResult(ctx, failure())

	assert.Equal(t, 1.0, counterValue(t, reg, "textgen_requests_total", "ok"))
	assert.Equal(t, 1.0, counterValue(t, reg, "textgen_requests_total", "429"))

	n, err := testutil.GatherAndCount(reg, "textgen_tokens_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = testutil.GatherAndCount(reg, "textgen_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewPrometheusMeter_Errors(t *testing.T) {
	_, err := meter.NewPrometheusMeter(nil)
	assert.Error(t, err)

	reg := prometheus.NewRegistry()
	_, err = meter.NewPrometheusMeter(reg)
	require.NoError(t, err)
	_, err = meter.NewPrometheusMeter(reg)
	assert.Error(t, err)
}

// counterValue reads one series of a counter family by its status label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, mm := range f.GetMetric() {
			for _, l := range mm.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					return mm.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{status=%q} not found", name, status)
	return 0
}

func TestTracingMeter(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	m := meter.NewTracingMeter(tp)

	ctx := context.Background()
	m.OnResult(ctx, success())
	m.OnResult(ctx, failure())

	spans := rec.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "textgen.generate", ok.Name())
	assert.Equal(t, start, ok.StartTime())
	assert.Equal(t, start.Add(250*time.Millisecond), ok.EndTime())
	assert.Equal(t, codes.Unset, ok.Status().Code)

	bad := spans[1]
	assert.Equal(t, codes.Error, bad.Status().Code)
	require.Len(t, bad.Events(), 1)
	assert.Equal(t, "exception", bad.Events()[0].Name)
}

type countingMeter struct{ requests, results int }

func (c *countingMeter) OnRequest(context.Context, textgen.RequestEvent) { c.requests++ }
func (c *countingMeter) OnResult(context.Context, textgen.ResultEvent)   { c.results++ }

func TestMulti(t *testing.T) {
	a, b := &countingMeter{}, &countingMeter{}
	m := meter.Multi(a, nil, b, &meter.NoopMeter{})
	assert.Len(t, m, 3)

	m.OnRequest(context.Background(), textgen.RequestEvent{})
	m.OnResult(context.Background(), textgen.ResultEvent{Error: errors.New("x")})
	assert.Equal(t, 1, a.requests)
	assert.Equal(t, 1, b.results)
}

func TestMeter_ObservesClientCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := meter.NewPrometheusMeter(reg)
	require.NoError(t, err)

	core := textgen.NewCore(textgen.ClientLorem, textgen.NewSettings(textgen.WithMeter(pm)))
	err = core.Observe(context.Background(), textgen.OpModels, "", func(context.Context) (*textgen.Usage, error) {
		return nil, nil
	})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "textgen_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
