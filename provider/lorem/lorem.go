// Package lorem is an offline client that answers with lorem ipsum text.
// It needs no API key and is meant for development and demos.
package lorem

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	loremgen "github.com/bozaro/golorem"
	"github.com/google/uuid"

	"github.com/ineyio/textgen"
)

const (
	// DefaultWords is the reply length when the request sets no token limit.
	DefaultWords = 48
	// MaxWords caps the reply length whatever limit the request asks for.
	MaxWords = 4096
)

var catalog = []string{"lorem-small", "lorem-medium", "lorem-large"}

// Client generates placeholder text locally.
type Client struct {
	core *textgen.Core

	mu  sync.Mutex
	gen *loremgen.Lorem
}

var _ textgen.Client = (*Client)(nil)

// New creates a lorem client. It never fails; the error keeps the
// constructor shape shared by every vendor.
func New(opts ...textgen.Option) (*Client, error) {
	s := textgen.NewSettings(opts...)
	if s.DefaultModel == "" {
		s.DefaultModel = catalog[0]
	}
	return &Client{
		core: textgen.NewCore(textgen.ClientLorem, s),
		gen:  loremgen.New(),
	}, nil
}

func (c *Client) Type() textgen.ClientType { return textgen.ClientLorem }

func (c *Client) Core() *textgen.Core { return c.core }

func (c *Client) NewRequestBuilder() *textgen.RequestBuilder { return c.core.NewRequestBuilder() }

// Models returns the fixed catalog.
func (c *Client) Models(context.Context) (textgen.ModelsResponse, error) {
	return textgen.Catalog(catalog...), nil
}

// GenerateText overlays req onto the client defaults and generates.
func (c *Client) GenerateText(ctx context.Context, req textgen.GenerateTextRequest) (textgen.GenerateTextResponse, error) {
	b := c.core.NewRequestBuilder().ApplyRequest(req)
	built, err := b.Build()
	if err != nil {
		return textgen.GenerateTextResponse{}, err
	}
	return c.Do(ctx, built)
}

// Generate configures a generic builder on top of the client defaults.
func (c *Client) Generate(ctx context.Context, configure func(*textgen.RequestBuilder)) (textgen.GenerateTextResponse, error) {
	b := c.core.NewRequestBuilder()
	if configure != nil {
		configure(b)
	}
	req, err := b.Build()
	if err != nil {
		return textgen.GenerateTextResponse{}, err
	}
	return c.Do(ctx, req)
}

// Do produces a reply of MaxOutputTokens words, capped at MaxWords.
func (c *Client) Do(ctx context.Context, req textgen.GenerateTextRequest) (textgen.GenerateTextResponse, error) {
	if req.Model == "" {
		return textgen.GenerateTextResponse{}, &textgen.ValidationError{Field: "model", Err: textgen.ErrMissingField}
	}

	var out textgen.GenerateTextResponse
	err := c.core.Observe(ctx, textgen.OpGenerate, req.Model, func(ctx context.Context) (*textgen.Usage, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !slices.Contains(catalog, req.Model) {
			return nil, fmt.Errorf("%w: lorem: %q", textgen.ErrModelNotFound, req.Model)
		}

		limit, finish := DefaultWords, "stop"
		if req.MaxOutputTokens != nil {
			limit, finish = min(*req.MaxOutputTokens, MaxWords), "length"
		}
		words := c.words(limit)

		_, msgs := req.Conversation(textgen.SystemAsMessage)
		var in int
		for _, m := range msgs {
			in += len(strings.Fields(m.Content))
		}

		out = textgen.GenerateTextResponse{
			Response:     strings.Join(words, " "),
			FinishReason: finish,
			Model:        req.Model,
			ID:           "lorem-" + uuid.NewString(),
			Usage: textgen.NewUsage(
				textgen.Int64Ptr(int64(in)),
				textgen.Int64Ptr(int64(len(words))),
				textgen.Int64Ptr(int64(in+len(words))),
			),
		}
		return out.Usage, nil
	})
	return out, err
}

// words returns exactly n words of generated sentences.
func (c *Client) words(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, n)
	for len(out) < n {
		out = append(out, strings.Fields(c.gen.Sentence(5, 15))...)
	}
	return out[:n]
}
