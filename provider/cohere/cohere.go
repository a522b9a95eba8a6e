// Package cohere is the Cohere v2 chat adapter.
package cohere

import (
	"context"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

const defaultBaseURL = "https://api.cohere.com"

// Client is a Cohere client.
type Client struct {
	core *textgen.Core
	http *transport.Transport
}

var _ textgen.Client = (*Client)(nil)

// New creates a Cohere client.
func New(opts ...textgen.Option) (*Client, error) {
	s := textgen.NewSettings(opts...)
	key, err := s.RequireAPIKey(textgen.ClientCohere)
	if err != nil {
		return nil, err
	}
	return &Client{
		core: textgen.NewCore(textgen.ClientCohere, s),
		http: s.Transport(textgen.ClientCohere, s.URL(defaultBaseURL),
			transport.WithHeader("Authorization", "Bearer "+key),
		),
	}, nil
}

func (c *Client) Type() textgen.ClientType { return textgen.ClientCohere }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// TextGenerationRequestBuilder returns a vendor builder with the client
// defaults staged.
func (c *Client) TextGenerationRequestBuilder() *RequestBuilder {
	return &RequestBuilder{RequestBuilder: *c.core.NewRequestBuilder()}
}

// Models lists the models usable with the chat endpoint.
func (c *Client) Models(ctx context.Context) (textgen.ModelsResponse, error) {
	var out textgen.ModelsResponse
	err := c.core.Observe(ctx, textgen.OpModels, "", func(ctx context.Context) (*textgen.Usage, error) {
		var resp modelsResponse
		if err := c.http.Get(ctx, "/v1/models?endpoint=chat", &resp); err != nil {
			return nil, err
		}
		out.Models = make([]textgen.Model, 0, len(resp.Models))
		for _, m := range resp.Models {
			out.Models = append(out.Models, textgen.Model{ID: m.Name, Name: m.Name})
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
		var wire chatResponse
		if err := c.http.Post(ctx, "/v2/chat", toWire(req), &wire); err != nil {
			return nil, err
		}
		out = fromWire(wire, req.Model)
		return out.Usage, nil
	})
	return out, err
}
