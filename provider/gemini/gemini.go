// Package gemini is the Google Gemini generateContent adapter.
package gemini

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client is a Gemini client.
type Client struct {
	core *textgen.Core
	http *transport.Transport
}

var _ textgen.Client = (*Client)(nil)

// New creates a Gemini client.
func New(opts ...textgen.Option) (*Client, error) {
	s := textgen.NewSettings(opts...)
	key, err := s.RequireAPIKey(textgen.ClientGoogle)
	if err != nil {
		return nil, err
	}
	return &Client{
		core: textgen.NewCore(textgen.ClientGoogle, s),
		http: s.Transport(textgen.ClientGoogle, s.URL(defaultBaseURL),
			transport.WithHeader("x-goog-api-key", key),
		),
	}, nil
}

func (c *Client) Type() textgen.ClientType { return textgen.ClientGoogle }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// TextGenerationRequestBuilder returns a vendor builder with the client
// defaults staged.
func (c *Client) TextGenerationRequestBuilder() *RequestBuilder {
	return &RequestBuilder{RequestBuilder: *c.core.NewRequestBuilder()}
}

// Models lists the models that support generateContent.
func (c *Client) Models(ctx context.Context) (textgen.ModelsResponse, error) {
	var out textgen.ModelsResponse
	err := c.core.Observe(ctx, textgen.OpModels, "", func(ctx context.Context) (*textgen.Usage, error) {
		var resp modelsResponse
		if err := c.http.Get(ctx, "/v1beta/models?pageSize=1000", &resp); err != nil {
			return nil, err
		}
		out.Models = make([]textgen.Model, 0, len(resp.Models))
		for _, m := range resp.Models {
			if len(m.SupportedGenerationMethods) > 0 && !slices.Contains(m.SupportedGenerationMethods, "generateContent") {
				continue
			}
			id := strings.TrimPrefix(m.Name, "models/")
			name := m.DisplayName
			if name == "" {
				name = id
			}
			out.Models = append(out.Models, textgen.Model{ID: id, Name: name})
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

	path := "/v1beta/models/" + url.PathEscape(strings.TrimPrefix(req.Model, "models/")) + ":generateContent"

	var out Response
	err := c.core.Observe(ctx, textgen.OpGenerate, req.Model, func(ctx context.Context) (*textgen.Usage, error) {
		var wire generateResponse
		if err := c.http.Post(ctx, path, toWire(req), &wire); err != nil {
			return nil, err
		}
		out = fromWire(wire, req.Model)
		return out.Usage, nil
	})
	return out, err
}
