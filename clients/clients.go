// Package clients maps client types to vendor constructors.
package clients

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/provider/anthropic"
	"github.com/ineyio/textgen/provider/azure"
	"github.com/ineyio/textgen/provider/bedrock"
	"github.com/ineyio/textgen/provider/cohere"
	"github.com/ineyio/textgen/provider/gemini"
	"github.com/ineyio/textgen/provider/gonka"
	"github.com/ineyio/textgen/provider/lorem"
	"github.com/ineyio/textgen/provider/openaicompat"
	"github.com/ineyio/textgen/provider/yandex"
	"github.com/ineyio/textgen/transport"
)

type constructor func(opts ...textgen.Option) (textgen.Client, error)

func adapt[C textgen.Client](fn func(opts ...textgen.Option) (C, error)) constructor {
	return func(opts ...textgen.Option) (textgen.Client, error) {
		c, err := fn(opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

var constructors = map[textgen.ClientType]constructor{
	textgen.ClientOpenAI:    adapt(openaicompat.NewOpenAI),
	textgen.ClientAzure:     adapt(azure.New),
	textgen.ClientGrok:      adapt(openaicompat.NewGrok),
	textgen.ClientMistral:   adapt(openaicompat.NewMistral),
	textgen.ClientCerebras:  adapt(openaicompat.NewCerebras),
	textgen.ClientDeepSeek:  adapt(openaicompat.NewDeepSeek),
	textgen.ClientAI21:      adapt(openaicompat.NewAI21),
	textgen.ClientGonka:     adapt(gonka.New),
	textgen.ClientAnthropic: adapt(anthropic.New),
	textgen.ClientGoogle:    adapt(gemini.New),
	textgen.ClientCohere:    adapt(cohere.New),
	textgen.ClientBedrock:   adapt(bedrock.New),
	textgen.ClientYandex:    adapt(yandex.New),
	textgen.ClientLorem:     adapt(lorem.New),
}

// byType resolves concrete client types. The shared OpenAI-compatible
// client resolves to openai; Grok, Mistral and the rest are reachable only
// through NewBuilder.
var byType = map[reflect.Type]textgen.ClientType{
	reflect.TypeFor[*openaicompat.Client](): textgen.ClientOpenAI,
	reflect.TypeFor[*azure.Client]():        textgen.ClientAzure,
	reflect.TypeFor[*gonka.Client]():        textgen.ClientGonka,
	reflect.TypeFor[*anthropic.Client]():    textgen.ClientAnthropic,
	reflect.TypeFor[*gemini.Client]():       textgen.ClientGoogle,
	reflect.TypeFor[*cohere.Client]():       textgen.ClientCohere,
	reflect.TypeFor[*bedrock.Client]():      textgen.ClientBedrock,
	reflect.TypeFor[*yandex.Client]():       textgen.ClientYandex,
	reflect.TypeFor[*lorem.Client]():        textgen.ClientLorem,
}

// Builder accumulates options for one client type. Every Build call creates
// a new client.
type Builder struct {
	kind textgen.ClientType
	opts []textgen.Option
}

// NewBuilder returns a builder for kind.
func NewBuilder(kind textgen.ClientType) (*Builder, error) {
	if _, ok := constructors[kind]; !ok {
		return nil, fmt.Errorf("%w: %q", textgen.ErrUnsupportedClient, kind)
	}
	return &Builder{kind: kind}, nil
}

// BuilderFor returns a builder for the client type C.
func BuilderFor[C textgen.Client]() (*Builder, error) {
	t := reflect.TypeFor[C]()
	kind, ok := byType[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", textgen.ErrUnsupportedClient, t)
	}
	return NewBuilder(kind)
}

// Type returns the client type the builder constructs.
func (b *Builder) Type() textgen.ClientType { return b.kind }

// With appends raw options.
func (b *Builder) With(opts ...textgen.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

func (b *Builder) APIKey(key string) *Builder { return b.With(textgen.WithAPIKey(key)) }

func (b *Builder) BaseURL(url string) *Builder { return b.With(textgen.WithBaseURL(url)) }

func (b *Builder) DefaultModel(model string) *Builder { return b.With(textgen.WithDefaultModel(model)) }

func (b *Builder) DefaultTemperature(t float64) *Builder {
	return b.With(textgen.WithDefaultTemperature(t))
}

func (b *Builder) Timeout(d time.Duration) *Builder { return b.With(textgen.WithTimeout(d)) }

func (b *Builder) HTTPLogLevel(level transport.LogLevel) *Builder {
	return b.With(textgen.WithHTTPLogLevel(level))
}

func (b *Builder) Engine(e transport.Engine) *Builder { return b.With(textgen.WithEngine(e)) }

func (b *Builder) Logger(l *slog.Logger) *Builder { return b.With(textgen.WithLogger(l)) }

func (b *Builder) Meter(m textgen.Meter) *Builder { return b.With(textgen.WithMeter(m)) }

// Option sets a vendor-specific setting such as an Azure resource.
func (b *Builder) Option(key, value string) *Builder { return b.With(textgen.WithOption(key, value)) }

// Build constructs a new client from the accumulated options.
func (b *Builder) Build() (textgen.Client, error) {
	return constructors[b.kind](b.opts...)
}

// Build constructs a client and asserts its concrete type.
func Build[C textgen.Client](b *Builder) (C, error) {
	var zero C
	c, err := b.Build()
	if err != nil {
		return zero, err
	}
	typed, ok := c.(C)
	if !ok {
		return zero, fmt.Errorf("%w: %s builds %T", textgen.ErrUnsupportedClient, b.kind, c)
	}
	return typed, nil
}

// New builds a client of kind with opts.
func New(kind textgen.ClientType, opts ...textgen.Option) (textgen.Client, error) {
	b, err := NewBuilder(kind)
	if err != nil {
		return nil, err
	}
	return b.With(opts...).Build()
}

// FromConfig builds every client in cfg, keyed by name. Shared options such
// as a logger or meter are applied before each entry's own settings.
func FromConfig(cfg textgen.Config, shared ...textgen.Option) (map[string]textgen.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string]textgen.Client, len(cfg.Clients))
	for _, cc := range cfg.Clients {
		c, err := FromClientConfig(cc, shared...)
		if err != nil {
			return nil, err
		}
		out[cc.Name] = c
	}
	return out, nil
}

// FromClientConfig builds the client described by one config entry.
func FromClientConfig(cc textgen.ClientConfig, shared ...textgen.Option) (textgen.Client, error) {
	kind, err := textgen.ParseClientType(cc.Type)
	if err != nil {
		return nil, fmt.Errorf("textgen: client %q: %w", cc.Name, err)
	}
	opts, err := cc.Settings()
	if err != nil {
		return nil, err
	}
	c, err := New(kind, append(append([]textgen.Option{}, shared...), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("textgen: client %q: %w", cc.Name, err)
	}
	return c, nil
}
