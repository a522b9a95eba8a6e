package meter

import (
	"context"

	"github.com/ineyio/textgen"
)

// NoopMeter is a meter that does nothing.
type NoopMeter struct{}

var _ textgen.Meter = (*NoopMeter)(nil)

func (m *NoopMeter) OnRequest(context.Context, textgen.RequestEvent) {}
func (m *NoopMeter) OnResult(context.Context, textgen.ResultEvent)   {}
