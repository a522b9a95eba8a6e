// Package anthropic is the Anthropic Messages API adapter. System
// instructions go to the top-level system field and max_tokens is mandatory.
package anthropic

import (
	"context"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// DefaultMaxTokens is sent when the request sets no output limit.
	DefaultMaxTokens = 4096
)

// Client is an Anthropic client.
type Client struct {
	core *textgen.Core
	http *transport.Transport
}

var _ textgen.Client = (*Client)(nil)

// New creates an Anthropic client.
func New(opts ...textgen.Option) (*Client, error) {
	s := textgen.NewSettings(opts...)
	key, err := s.RequireAPIKey(textgen.ClientAnthropic)
	if err != nil {
		return nil, err
	}
	return &Client{
		core: textgen.NewCore(textgen.ClientAnthropic, s),
		http: s.Transport(textgen.ClientAnthropic, s.URL(defaultBaseURL),
			transport.WithHeader("x-api-key", key),
			transport.WithHeader("anthropic-version", apiVersion),
		),
	}, nil
}

func (c *Client) Type() textgen.ClientType { return textgen.ClientAnthropic }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// TextGenerationRequestBuilder returns a vendor builder with the client
// defaults staged.
func (c *Client) TextGenerationRequestBuilder() *RequestBuilder {
	return &RequestBuilder{RequestBuilder: *c.core.NewRequestBuilder()}
}

// Models lists the available Claude models.
func (c *Client) Models(ctx context.Context) (textgen.ModelsResponse, error) {
	var out textgen.ModelsResponse
	err := c.core.Observe(ctx, textgen.OpModels, "", func(ctx context.Context) (*textgen.Usage, error) {
		var resp modelsResponse
		if err := c.http.Get(ctx, "/v1/models?limit=1000", &resp); err != nil {
			return nil, err
		}
		out.Models = make([]textgen.Model, 0, len(resp.Data))
		for _, m := range resp.Data {
			name := m.DisplayName
			if name == "" {
				name = m.ID
			}
			out.Models = append(out.Models, textgen.Model{ID: m.ID, Name: name})
		}
		return nil, nil
	})
	return out, err
}

// GenerateText overlays req onto the client defaults and generates.
func (c *Client) GenerateText(ctx context.Context, req textgen.GenerateTextRequest) (textgen.GenerateTextResponse, error) {
	resp, err := c.GenerateWith(ctx, func(b *RequestBuilder) { b.ApplyRequest(req) })
	return resp.GenerateTextResponse, err
}

// Generate configures a generic builder on top of the client defaults.
func (c *Client) Generate(ctx context.Context, configure func(*textgen.RequestBuilder)) (textgen.GenerateTextResponse, error) {
	resp, err := c.GenerateWith(ctx, func(b *RequestBuilder) {
		if configure != nil {
			configure(&b.RequestBuilder)
		}
	})
	return resp.GenerateTextResponse, err
}

// GenerateWith configures a vendor builder on top of the client defaults.
func (c *Client) GenerateWith(ctx context.Context, configure func(*RequestBuilder)) (Response, error) {
	b := c.TextGenerationRequestBuilder()
	if configure != nil {
		configure(b)
	}
	req, err := b.Build()
	if err != nil {
		return Response{}, err
	}
	return c.Do(ctx, req)
}

// Do sends a built request.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	if req.Model == "" {
		return Response{}, &textgen.ValidationError{Field: "model", Err: textgen.ErrMissingField}
	}

	var out Response
	err := c.core.Observe(ctx, textgen.OpGenerate, req.Model, func(ctx context.Context) (*textgen.Usage, error) {
		var wire messageResponse
		if err := c.http.Post(ctx, "/v1/messages", toWire(req), &wire); err != nil {
			return nil, err
		}
		out = fromWire(wire)
		return out.Usage, nil
	})
	return out, err
}
