package textgen

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ineyio/textgen/transport"
)

// Client is the vendor-agnostic surface every vendor client implements.
type Client interface {
	// Type returns the vendor identifier.
	Type() ClientType

	// Models lists the models the vendor offers.
	Models(ctx context.Context) (ModelsResponse, error)

	// GenerateText overlays the present fields of req onto the client
	// defaults and performs one generation call.
	GenerateText(ctx context.Context, req GenerateTextRequest) (GenerateTextResponse, error)

	// Generate stages the client defaults into a fresh builder, lets configure
	// override them and performs one generation call.
	Generate(ctx context.Context, configure func(*RequestBuilder)) (GenerateTextResponse, error)

	// NewRequestBuilder returns a builder with the client defaults staged.
	NewRequestBuilder() *RequestBuilder

	// Core exposes the mutable client defaults.
	Core() *Core
}

// Core holds the settings shared by every call on a client.
//
// The exported fields may be changed at any time, but they are read without
// synchronization: changing them while calls are in flight is a data race.
// Configure a client before sharing it between goroutines.
type Core struct {
	DefaultModel       string
	DefaultTemperature *float64
	// Timeout bounds each call. Zero means only the caller's context applies.
	Timeout time.Duration
	Meter   Meter

	kind ClientType
}

// NewCore creates the shared core for a client of the given type.
func NewCore(kind ClientType, s Settings) *Core {
	c := &Core{
		DefaultModel: s.DefaultModel,
		Timeout:      s.Timeout,
		Meter:        s.Meter,
		kind:         kind,
	}
	if s.DefaultTemperature != nil {
		c.DefaultTemperature = Float64Ptr(*s.DefaultTemperature)
	}
	return c
}

// Type returns the client type.
func (c *Core) Type() ClientType { return c.kind }

// Defaults snapshots the current client defaults.
func (c *Core) Defaults() Defaults {
	return Defaults{Model: c.DefaultModel, Temperature: c.DefaultTemperature}
}

// NewRequestBuilder returns a fresh builder with the defaults staged.
func (c *Core) NewRequestBuilder() *RequestBuilder {
	return NewRequestBuilder().ApplyDefaults(c.Defaults())
}

// Observe runs fn under the client timeout, reporting it to the meter. It
// tags ctx with a request id shared by the meter events and HTTP log lines,
// and wraps any failure in a *ClientError.
func (c *Core) Observe(ctx context.Context, op, model string, fn func(ctx context.Context) (*Usage, error)) error {
	m := c.Meter
	if m == nil {
		m = noopMeter{}
	}

	id := transport.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = transport.WithRequestID(ctx, id)
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	m.OnRequest(ctx, RequestEvent{
		RequestID: id,
		Client:    c.kind,
		Op:        op,
		Model:     model,
		Start:     start,
	})

	usage, err := fn(ctx)
	if err != nil {
		var ce *ClientError
		if !errors.As(err, &ce) {
			err = &ClientError{Client: c.kind, Op: op, Model: model, Err: err}
		}
	}

	m.OnResult(ctx, ResultEvent{
		RequestID: id,
		Client:    c.kind,
		Op:        op,
		Model:     model,
		Success:   err == nil,
		Start:     start,
		Duration:  time.Since(start),
		Usage:     usage,
		Error:     err,
	})
	return err
}
