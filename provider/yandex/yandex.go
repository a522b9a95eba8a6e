// Package yandex is the Yandex Cloud Foundation Models adapter.
package yandex

import (
	"context"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

const defaultBaseURL = "https://llm.api.cloud.yandex.net"

// OptionFolderID names the Yandex Cloud folder that owns the models.
const OptionFolderID = "folder_id"

var catalog = []string{
	"yandexgpt/latest",
	"yandexgpt/rc",
	"yandexgpt-lite/latest",
	"llama/latest",
	"llama-lite/latest",
}

// WithFolderID sets the folder id.
func WithFolderID(id string) textgen.Option {
	return textgen.WithOption(OptionFolderID, id)
}

// Client is a Yandex client.
type Client struct {
	core   *textgen.Core
	http   *transport.Transport
	folder string
}

var _ textgen.Client = (*Client)(nil)

// New creates a Yandex client. The API key and folder id are required.
func New(opts ...textgen.Option) (*Client, error) {
	s := textgen.NewSettings(opts...)
	key, err := s.RequireAPIKey(textgen.ClientYandex)
	if err != nil {
		return nil, err
	}
	folder, err := s.Require(textgen.ClientYandex, OptionFolderID)
	if err != nil {
		return nil, err
	}
	return &Client{
		core: textgen.NewCore(textgen.ClientYandex, s),
		http: s.Transport(textgen.ClientYandex, s.URL(defaultBaseURL),
			transport.WithHeader("Authorization", "Api-Key "+key),
			transport.WithHeader("x-folder-id", folder),
		),
		folder: folder,
	}, nil
}

func (c *Client) Type() textgen.ClientType { return textgen.ClientYandex }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// TextGenerationRequestBuilder returns a vendor builder with the client
// defaults staged.
func (c *Client) TextGenerationRequestBuilder() *RequestBuilder {
	return &RequestBuilder{RequestBuilder: *c.core.NewRequestBuilder()}
}

// Models returns the fixed catalog.
func (c *Client) Models(context.Context) (textgen.ModelsResponse, error) {
	return textgen.Catalog(catalog...), nil
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
		var wire completionResponse
		if err := c.http.Post(ctx, "/foundationModels/v1/completion", toWire(req, c.folder), &wire); err != nil {
			return nil, err
		}
		out = fromWire(wire, req.Model)
		return out.Usage, nil
	})
	return out, err
}
