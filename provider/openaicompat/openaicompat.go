// Package openaicompat is the adapter for vendors that speak the OpenAI chat
// completions dialect: OpenAI, Azure OpenAI, Grok/xAI, Mistral, Cerebras,
// DeepSeek, AI21 and Gonka. A Profile captures what differs between them.
package openaicompat

import (
	"context"
	"net/url"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

// Profile describes one OpenAI-compatible vendor.
type Profile struct {
	Kind    textgen.ClientType
	BaseURL string

	// ChatPath is the completion endpoint. ChatPathFor, when set, wins and
	// receives the (unescaped) model name.
	ChatPath    string
	ChatPathFor func(model string) string

	// ModelsPath is the model listing endpoint. Empty means Catalog is
	// returned without a network call.
	ModelsPath string
	Catalog    []string

	// JSONSchema reports whether json_schema response formats are accepted.
	// When false they are dropped from the wire request.
	JSONSchema bool

	// MaxCompletionTokens sends max_completion_tokens instead of max_tokens.
	MaxCompletionTokens bool

	// AuthHeader and AuthScheme build the credential header. The defaults
	// are "Authorization" and "Bearer".
	AuthHeader string
	AuthScheme string

	Query map[string]string
}

func (p Profile) chatPath(model string) string {
	if p.ChatPathFor != nil {
		return p.ChatPathFor(model)
	}
	if p.ChatPath == "" {
		return "/v1/chat/completions"
	}
	return p.ChatPath
}

// Client is an OpenAI-compatible vendor client.
type Client struct {
	core    *textgen.Core
	profile Profile
	http    *transport.Transport
}

var _ textgen.Client = (*Client)(nil)

// New creates a client for the vendor described by p.
func New(p Profile, opts ...textgen.Option) (*Client, error) {
	return NewFromSettings(p, textgen.NewSettings(opts...))
}

// NewFromSettings is New for callers that already resolved their Settings.
func NewFromSettings(p Profile, s textgen.Settings) (*Client, error) {
	key, err := s.RequireAPIKey(p.Kind)
	if err != nil {
		return nil, err
	}

	header, scheme := p.AuthHeader, p.AuthScheme
	if header == "" {
		header = "Authorization"
		if scheme == "" {
			scheme = "Bearer"
		}
	}
	value := key
	if scheme != "" {
		value = scheme + " " + key
	}

	topts := []transport.Option{transport.WithHeader(header, value)}
	for k, v := range p.Query {
		topts = append(topts, transport.WithQuery(k, v))
	}

	return &Client{
		core:    textgen.NewCore(p.Kind, s),
		profile: p,
		http:    s.Transport(p.Kind, s.URL(p.BaseURL), topts...),
	}, nil
}

// NewOpenAI creates a client for OpenAI.
func NewOpenAI(opts ...textgen.Option) (*Client, error) {
	return New(Profile{
		Kind:                textgen.ClientOpenAI,
		BaseURL:             "https://api.openai.com",
		ModelsPath:          "/v1/models",
		JSONSchema:          true,
		MaxCompletionTokens: true,
	}, opts...)
}

// NewGrok creates a client for Grok/xAI.
func NewGrok(opts ...textgen.Option) (*Client, error) {
	return New(Profile{
		Kind:       textgen.ClientGrok,
		BaseURL:    "https://api.x.ai",
		ModelsPath: "/v1/models",
		JSONSchema: true,
	}, opts...)
}

// NewMistral creates a client for Mistral.
func NewMistral(opts ...textgen.Option) (*Client, error) {
	return New(Profile{
		Kind:       textgen.ClientMistral,
		BaseURL:    "https://api.mistral.ai",
		ModelsPath: "/v1/models",
		JSONSchema: true,
	}, opts...)
}

// NewCerebras creates a client for Cerebras.
func NewCerebras(opts ...textgen.Option) (*Client, error) {
	return New(Profile{
		Kind:       textgen.ClientCerebras,
		BaseURL:    "https://api.cerebras.ai",
		ModelsPath: "/v1/models",
		JSONSchema: true,
	}, opts...)
}

// NewDeepSeek creates a client for DeepSeek. DeepSeek serves its API from the
// root path and has no json_schema support.
func NewDeepSeek(opts ...textgen.Option) (*Client, error) {
	return New(Profile{
		Kind:       textgen.ClientDeepSeek,
		BaseURL:    "https://api.deepseek.com",
		ChatPath:   "/chat/completions",
		ModelsPath: "/models",
	}, opts...)
}

// NewAI21 creates a client for AI21 Studio.
func NewAI21(opts ...textgen.Option) (*Client, error) {
	return New(Profile{
		Kind:     textgen.ClientAI21,
		BaseURL:  "https://api.ai21.com",
		ChatPath: "/studio/v1/chat/completions",
		Catalog:  []string{"jamba-large", "jamba-mini", "jamba-1.5-large", "jamba-1.5-mini"},
	}, opts...)
}

// DeploymentPath returns the Azure chat path for a deployment.
func DeploymentPath(deployment string) string {
	return "/openai/deployments/" + url.PathEscape(deployment) + "/chat/completions"
}

func (c *Client) Type() textgen.ClientType { return c.profile.Kind }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// TextGenerationRequestBuilder returns a vendor builder with the client
// defaults staged.
func (c *Client) TextGenerationRequestBuilder() *RequestBuilder {
	return &RequestBuilder{RequestBuilder: *c.core.NewRequestBuilder()}
}

// Models lists the vendor's models.
func (c *Client) Models(ctx context.Context) (textgen.ModelsResponse, error) {
	if c.profile.ModelsPath == "" {
		return textgen.Catalog(c.profile.Catalog...), nil
	}

	var out textgen.ModelsResponse
	err := c.core.Observe(ctx, textgen.OpModels, "", func(ctx context.Context) (*textgen.Usage, error) {
		var resp modelsResponse
		if err := c.http.Get(ctx, c.profile.ModelsPath, &resp); err != nil {
			return nil, err
		}
		out = resp.toModels()
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
		if err := c.http.Post(ctx, c.profile.chatPath(req.Model), toWire(c.profile, req), &wire); err != nil {
			return nil, err
		}
		out = fromWire(wire)
		return out.Usage, nil
	})
	return out, err
}

func (r modelsResponse) toModels() textgen.ModelsResponse {
	models := make([]textgen.Model, 0, len(r.Data))
	for _, m := range r.Data {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		models = append(models, textgen.Model{ID: m.ID, Name: name})
	}
	return textgen.ModelsResponse{Models: models}
}
