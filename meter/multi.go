package meter

import (
	"context"

	"github.com/ineyio/textgen"
)

// MultiMeter forwards every event to each meter in order.
type MultiMeter []textgen.Meter

var _ textgen.Meter = MultiMeter(nil)

// Multi combines meters, skipping nil entries.
func Multi(meters ...textgen.Meter) MultiMeter {
	out := make(MultiMeter, 0, len(meters))
	for _, m := range meters {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func (mm MultiMeter) OnRequest(ctx context.Context, e textgen.RequestEvent) {
	for _, m := range mm {
		m.OnRequest(ctx, e)
	}
}

func (mm MultiMeter) OnResult(ctx context.Context, e textgen.ResultEvent) {
	for _, m := range mm {
		m.OnResult(ctx, e)
	}
}
