package clients_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/clients"
	"github.com/ineyio/textgen/provider/anthropic"
	"github.com/ineyio/textgen/provider/azure"
	"github.com/ineyio/textgen/provider/bedrock"
	"github.com/ineyio/textgen/provider/gonka"
	"github.com/ineyio/textgen/provider/lorem"
	"github.com/ineyio/textgen/provider/openaicompat"
	"github.com/ineyio/textgen/provider/yandex"
	"github.com/ineyio/textgen/transport/transporttest"
)

const gonkaKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// minimal holds the smallest option set each client type accepts.
var minimal = map[textgen.ClientType][]textgen.Option{
	textgen.ClientOpenAI:    {textgen.WithAPIKey("k")},
	textgen.ClientAzure:     {textgen.WithAPIKey("k"), azure.WithResource("res")},
	textgen.ClientGrok:      {textgen.WithAPIKey("k")},
	textgen.ClientMistral:   {textgen.WithAPIKey("k")},
	textgen.ClientCerebras:  {textgen.WithAPIKey("k")},
	textgen.ClientDeepSeek:  {textgen.WithAPIKey("k")},
	textgen.ClientAI21:      {textgen.WithAPIKey("k")},
	textgen.ClientGonka:     {textgen.WithAPIKey(gonkaKey), gonka.WithEndpoint(gonka.Endpoint{URL: "https://node.test/v1", Address: "gonka1node"})},
	textgen.ClientAnthropic: {textgen.WithAPIKey("k")},
	textgen.ClientGoogle:    {textgen.WithAPIKey("k")},
	textgen.ClientCohere:    {textgen.WithAPIKey("k")},
	textgen.ClientBedrock:   {bedrock.WithRegion("us-east-1"), bedrock.WithCredentials(bedrock.Credentials{AccessKeyID: "a", SecretAccessKey: "s"})},
	textgen.ClientYandex:    {textgen.WithAPIKey("k"), yandex.WithFolderID("f")},
	textgen.ClientLorem:     nil,
}

func TestNewBuilder_EveryClientType(t *testing.T) {
	for _, kind := range textgen.AllClientTypes() {
		t.Run(string(kind), func(t *testing.T) {
			opts, ok := minimal[kind]
			require.True(t, ok, "no minimal options for %s", kind)

			b, err := clients.NewBuilder(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, b.Type())

			c, err := b.With(opts...).DefaultModel("m").DefaultTemperature(0.5).Build()
			require.NoError(t, err)
			assert.Equal(t, kind, c.Type())
			assert.Equal(t, "m", c.Core().DefaultModel)
			assert.Equal(t, 0.5, *c.Core().DefaultTemperature)
		})
	}
}

func TestNewBuilder_Unsupported(t *testing.T) {
	_, err := clients.NewBuilder("watson")
	assert.ErrorIs(t, err, textgen.ErrUnsupportedClient)
}

func TestGenerate_NilConfigurator(t *testing.T) {
	for _, kind := range textgen.AllClientTypes() {
		t.Run(string(kind), func(t *testing.T) {
			eng := transporttest.New()
			opts := append(append([]textgen.Option{}, minimal[kind]...),
				textgen.WithEngine(eng),
				textgen.WithDefaultModel("m"),
			)
			c, err := clients.New(kind, opts...)
			require.NoError(t, err)

			var genErr error
			require.NotPanics(t, func() {
				_, genErr = c.Generate(context.Background(), nil)
			})
			// The recording engine answers 404 for every route and lorem has no model "m".
			assert.ErrorIs(t, genErr, textgen.ErrModelNotFound)
			if kind != textgen.ClientLorem {
				assert.Equal(t, int64(1), eng.CallCount())
			}
		})
	}
}

func TestBuilder_BuildIsFresh(t *testing.T) {
	b, err := clients.NewBuilder(textgen.ClientLorem)
	require.NoError(t, err)

	a, err := b.Build()
	require.NoError(t, err)
	c, err := b.Build()
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	a.Core().DefaultModel = "changed"
	assert.NotEqual(t, "changed", c.Core().DefaultModel)
}

func TestBuilder_MissingConfiguration(t *testing.T) {
	for _, kind := range textgen.AllClientTypes() {
		if kind == textgen.ClientLorem {
			continue
		}
		t.Run(string(kind), func(t *testing.T) {
			_, err := clients.New(kind)
			assert.ErrorIs(t, err, textgen.ErrConfiguration)
		})
	}
}

func TestBuilderFor(t *testing.T) {
	tests := []struct {
		name string
		get  func() (*clients.Builder, error)
		want textgen.ClientType
	}{
		{"openaicompat", clients.BuilderFor[*openaicompat.Client], textgen.ClientOpenAI},
		{"azure", clients.BuilderFor[*azure.Client], textgen.ClientAzure},
		{"anthropic", clients.BuilderFor[*anthropic.Client], textgen.ClientAnthropic},
		{"bedrock", clients.BuilderFor[*bedrock.Client], textgen.ClientBedrock},
		{"lorem", clients.BuilderFor[*lorem.Client], textgen.ClientLorem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Type())
		})
	}

	_, err := clients.BuilderFor[textgen.Client]()
	assert.ErrorIs(t, err, textgen.ErrUnsupportedClient)
}

func TestBuild_Typed(t *testing.T) {
	b, err := clients.BuilderFor[*anthropic.Client]()
	require.NoError(t, err)

	c, err := clients.Build[*anthropic.Client](b.APIKey("k"))
	require.NoError(t, err)
	assert.NotNil(t, c.TextGenerationRequestBuilder())

	_, err = clients.Build[*lorem.Client](b)
	assert.ErrorIs(t, err, textgen.ErrUnsupportedClient)
}

func TestBuilder_EngineAndOption(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/openai/deployments/gpt-4o/chat/completions", 200,
		`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)

	b, err := clients.NewBuilder(textgen.ClientAzure)
	require.NoError(t, err)
	c, err := b.APIKey("k").Option(azure.OptionResource, "res").Engine(eng).DefaultModel("gpt-4o").Build()
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), func(r *textgen.RequestBuilder) { r.Prompt = "q" })
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Response)

	rec, _ := eng.Last()
	assert.Equal(t, "res.openai.azure.com", hostOf(t, rec.URL))
}

func TestFromConfig(t *testing.T) {
	cfg, err := textgen.ParseConfig([]byte(`
clients:
  - name: dev
    type: lorem
    default_model: lorem-medium
  - name: claude
    type: anthropic
    api_key: sk-ant
    default_model: claude-sonnet-4-5
    default_temperature: 0.2
  - name: ya
    type: yandex
    api_key: y
    options:
      folder_id: b1g
`))
	require.NoError(t, err)

	built, err := clients.FromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, built, 3)
	assert.Equal(t, textgen.ClientLorem, built["dev"].Type())
	assert.Equal(t, "lorem-medium", built["dev"].Core().DefaultModel)
	assert.Equal(t, textgen.ClientAnthropic, built["claude"].Type())
	assert.Equal(t, 0.2, *built["claude"].Core().DefaultTemperature)
	assert.Equal(t, textgen.ClientYandex, built["ya"].Type())
}

func TestFromConfig_ClientFailure(t *testing.T) {
	cfg := textgen.Config{Clients: []textgen.ClientConfig{{Name: "broken", Type: "azure", APIKey: "k"}}}

	_, err := clients.FromConfig(cfg)
	assert.ErrorIs(t, err, textgen.ErrConfiguration)
	assert.Contains(t, err.Error(), `"broken"`)
}
