// Package bedrock is the AWS Bedrock Converse adapter. Requests are signed
// with SigV4; the API key is the AWS access key id.
package bedrock

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/transport"
)

// Option keys read from textgen.Settings.
const (
	OptionRegion          = "region"
	OptionSecretAccessKey = "secret_access_key"
	OptionSessionToken    = "session_token"
)

var catalog = []string{
	"anthropic.claude-3-5-sonnet-20240620-v1:0",
	"anthropic.claude-3-haiku-20240307-v1:0",
	"amazon.nova-pro-v1:0",
	"amazon.nova-lite-v1:0",
	"meta.llama3-1-70b-instruct-v1:0",
	"mistral.mistral-large-2407-v1:0",
}

// WithRegion sets the AWS region.
func WithRegion(region string) textgen.Option {
	return textgen.WithOption(OptionRegion, region)
}

// WithCredentials sets the full AWS credential set.
func WithCredentials(c Credentials) textgen.Option {
	return func(s *textgen.Settings) {
		textgen.WithAPIKey(c.AccessKeyID)(s)
		textgen.WithOption(OptionSecretAccessKey, c.SecretAccessKey)(s)
		if c.SessionToken != "" {
			textgen.WithOption(OptionSessionToken, c.SessionToken)(s)
		}
	}
}

// Client is a Bedrock client.
type Client struct {
	core *textgen.Core
	http *transport.Transport
}

var _ textgen.Client = (*Client)(nil)

// New creates a Bedrock client. Region, access key id and secret are
// required.
func New(opts ...textgen.Option) (*Client, error) {
	return newClient(textgen.NewSettings(opts...), time.Now)
}

func newClient(s textgen.Settings, now func() time.Time) (*Client, error) {
	region, err := s.Require(textgen.ClientBedrock, OptionRegion)
	if err != nil {
		return nil, err
	}
	keyID, err := s.RequireAPIKey(textgen.ClientBedrock)
	if err != nil {
		return nil, err
	}
	secret, err := s.Require(textgen.ClientBedrock, OptionSecretAccessKey)
	if err != nil {
		return nil, err
	}

	signer := newSigningEngine(s.Engine, Credentials{
		AccessKeyID:     keyID,
		SecretAccessKey: secret,
		SessionToken:    s.Option(OptionSessionToken),
	}, region)
	signer.now = now
	s.Engine = signer

	return &Client{
		core: textgen.NewCore(textgen.ClientBedrock, s),
		http: s.Transport(textgen.ClientBedrock,
			s.URL(fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region))),
	}, nil
}

func (c *Client) Type() textgen.ClientType { return textgen.ClientBedrock }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// TextGenerationRequestBuilder returns a vendor builder with the client
// defaults staged.
func (c *Client) TextGenerationRequestBuilder() *RequestBuilder {
	return &RequestBuilder{RequestBuilder: *c.core.NewRequestBuilder()}
}

// Models returns the fixed catalog. Listing foundation models is a separate
// control-plane API.
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

// Do sends a built request to the Converse API.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	if req.Model == "" {
		return Response{}, &textgen.ValidationError{Field: "model", Err: textgen.ErrMissingField}
	}

	var out Response
	err := c.core.Observe(ctx, textgen.OpGenerate, req.Model, func(ctx context.Context) (*textgen.Usage, error) {
		var wire converseResponse
		path := "/model/" + url.PathEscape(req.Model) + "/converse"
		if err := c.http.Post(ctx, path, toWire(req), &wire); err != nil {
			return nil, err
		}
		out = fromWire(wire, req.Model)
		return out.Usage, nil
	})
	return out, err
}
