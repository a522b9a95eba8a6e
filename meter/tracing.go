package meter

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ineyio/textgen"
)

const tracerName = "github.com/ineyio/textgen"

// TracingMeter records one span per client operation. Spans are emitted on
// completion with the operation's real start and end times.
type TracingMeter struct {
	tracer trace.Tracer
}

var _ textgen.Meter = (*TracingMeter)(nil)

// NewTracingMeter uses tp, or the global provider when tp is nil.
func NewTracingMeter(tp trace.TracerProvider) *TracingMeter {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracingMeter{tracer: tp.Tracer(tracerName)}
}

func (m *TracingMeter) OnRequest(context.Context, textgen.RequestEvent) {}

func (m *TracingMeter) OnResult(ctx context.Context, e textgen.ResultEvent) {
	_, span := m.tracer.Start(ctx, "textgen."+e.Op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			attribute.String("textgen.request_id", e.RequestID),
			attribute.String("textgen.client", string(e.Client)),
			attribute.String("textgen.model", e.Model),
		),
	)

	if u := e.Usage; u != nil {
		if u.InputTokens != nil {
			span.SetAttributes(attribute.Int64("textgen.usage.input_tokens", *u.InputTokens))
		}
		if u.OutputTokens != nil {
			span.SetAttributes(attribute.Int64("textgen.usage.output_tokens", *u.OutputTokens))
		}
	}
	if !e.Success {
		if code := textgen.StatusCode(e.Error); code != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", code))
		}
		span.RecordError(e.Error)
		span.SetStatus(codes.Error, "operation failed")
	}
	span.End(trace.WithTimestamp(e.Start.Add(e.Duration)))
}
