package textgen

import (
	"context"
	"time"
)

// Meter observes client operations for monitoring/logging.
type Meter interface {
	// OnRequest is called before the request leaves the client.
	OnRequest(ctx context.Context, event RequestEvent)

	// OnResult is called when the operation finished, successfully or not.
	OnResult(ctx context.Context, event ResultEvent)
}

// Operation names reported in meter events.
const (
	OpModels   = "models"
	OpGenerate = "generate"
)

// RequestEvent describes an operation about to run.
type RequestEvent struct {
	RequestID string
	Client    ClientType
	Op        string
	Model     string
	Start     time.Time
}

// ResultEvent describes the outcome of an operation.
type ResultEvent struct {
	RequestID string
	Client    ClientType
	Op        string
	Model     string
	Success   bool
	Start     time.Time
	Duration  time.Duration
	Usage     *Usage
	Error     error
}

type noopMeter struct{}

func (noopMeter) OnRequest(context.Context, RequestEvent) {}
func (noopMeter) OnResult(context.Context, ResultEvent)   {}
