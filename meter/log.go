package meter

import (
	"context"
	"log/slog"

	"github.com/ineyio/textgen"
)

// LogMeter logs client events using slog.
type LogMeter struct {
	Logger *slog.Logger
}

var _ textgen.Meter = (*LogMeter)(nil)

// NewLogMeter creates a LogMeter with the given logger.
// If logger is nil, slog.Default() is used.
func NewLogMeter(logger *slog.Logger) *LogMeter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMeter{Logger: logger}
}

func (m *LogMeter) OnRequest(ctx context.Context, e textgen.RequestEvent) {
	m.Logger.DebugContext(ctx, "request",
		"request_id", e.RequestID,
		"client", e.Client,
		"op", e.Op,
		"model", e.Model,
	)
}

func (m *LogMeter) OnResult(ctx context.Context, e textgen.ResultEvent) {
	if e.Success {
		attrs := []any{
			"request_id", e.RequestID,
			"client", e.Client,
			"op", e.Op,
			"model", e.Model,
			"duration_ms", e.Duration.Milliseconds(),
		}
		if u := e.Usage; u != nil {
			attrs = append(attrs,
				"input_tokens", deref(u.InputTokens),
				"output_tokens", deref(u.OutputTokens),
				"total_tokens", deref(u.TotalTokens),
			)
		}
		m.Logger.InfoContext(ctx, "result", attrs...)
	} else {
		m.Logger.WarnContext(ctx, "result_error",
			"request_id", e.RequestID,
			"client", e.Client,
			"op", e.Op,
			"model", e.Model,
			"duration_ms", e.Duration.Milliseconds(),
			"status", textgen.StatusCode(e.Error),
			"error", e.Error,
		)
	}
}

// deref returns the counter or -1 when the vendor did not report it.
func deref(v *int64) int64 {
	if v == nil {
		return -1
	}
	return *v
}
