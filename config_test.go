package textgen_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/ineyio/textgen"
)

const sampleConfig = `
clients:
  - name: main
    type: openai
    api_key: ${TEXTGEN_TEST_KEY}
    default_model: gpt-4o-mini
    default_temperature: 0.2
    timeout: 30s
    http_log_level: headers
  - name: azure-east
    type: Azure
    api_key: az-key
    options:
      resource: my-resource
      api_version: "2024-10-21"
`

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEXTGEN_TEST_KEY", "sk-from-env")
	path := filepath.Join(t.TempDir(), "textgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := tg.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Clients, 2)

	main, ok := cfg.Client("main")
	require.True(t, ok)
	assert.Equal(t, "sk-from-env", main.APIKey)
	assert.Equal(t, 30*time.Second, main.Timeout)
	require.NotNil(t, main.DefaultTemperature)
	assert.Equal(t, 0.2, *main.DefaultTemperature)

	az, ok := cfg.Client("azure-east")
	require.True(t, ok)
	assert.Equal(t, "my-resource", az.Options["resource"])

	_, ok = cfg.Client("missing")
	assert.False(t, ok)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := tg.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  tg.Config
	}{
		{"empty", tg.Config{}},
		{"missing name", tg.Config{Clients: []tg.ClientConfig{{Type: "openai"}}}},
		{"missing type", tg.Config{Clients: []tg.ClientConfig{{Name: "a"}}}},
		{"unknown type", tg.Config{Clients: []tg.ClientConfig{{Name: "a", Type: "watson"}}}},
		{"duplicate", tg.Config{Clients: []tg.ClientConfig{{Name: "a", Type: "openai"}, {Name: "a", Type: "grok"}}}},
		{"bad log level", tg.Config{Clients: []tg.ClientConfig{{Name: "a", Type: "openai", HTTPLogLevel: "loud"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.True(t, tg.IsConfiguration(err))
		})
	}
}

func TestParseConfig_InvalidYAML(t *testing.T) {
	_, err := tg.ParseConfig([]byte("clients: [oops"))
	assert.Error(t, err)
}

func TestClientConfigSettings(t *testing.T) {
	cc := tg.ClientConfig{
		Name:               "x",
		Type:               "yandex",
		APIKey:             "k",
		DefaultModel:       "yandexgpt-lite",
		DefaultTemperature: tg.Float64Ptr(0.3),
		HTTPLogLevel:       "body",
		Options:            map[string]string{"Folder_ID": "b1g"},
	}
	opts, err := cc.Settings()
	require.NoError(t, err)

	s := tg.NewSettings(opts...)
	assert.Equal(t, "k", s.APIKey)
	assert.Equal(t, "yandexgpt-lite", s.DefaultModel)
	assert.Equal(t, 0.3, *s.DefaultTemperature)
	assert.Equal(t, "b1g", s.Option("folder_id"))

	v, err := s.Require(tg.ClientYandex, "folder_id")
	require.NoError(t, err)
	assert.Equal(t, "b1g", v)

	_, err = s.Require(tg.ClientYandex, "other")
	assert.ErrorIs(t, err, tg.ErrConfiguration)
}

func TestParseClientType(t *testing.T) {
	for _, ct := range tg.AllClientTypes() {
		got, err := tg.ParseClientType(string(ct))
		require.NoError(t, err)
		assert.Equal(t, ct, got)
		assert.True(t, ct.IsValid())
	}

	got, err := tg.ParseClientType(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, tg.ClientOpenAI, got)

	_, err = tg.ParseClientType("watson")
	assert.ErrorIs(t, err, tg.ErrUnsupportedClient)
	assert.False(t, tg.ClientType("watson").IsValid())
}
