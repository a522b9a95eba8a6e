package azure_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/provider/azure"
	"github.com/ineyio/textgen/transport/transporttest"
)

func TestGenerate_DeploymentPathAndHeaders(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/openai/deployments/gpt-4o/chat/completions", 200,
		`{"choices":[{"message":{"role":"assistant","content":"Answer"},"finish_reason":"stop"}],
		  "usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)

	c, err := azure.New(
		textgen.WithAPIKey("az-key"),
		textgen.WithEngine(eng),
		textgen.WithDefaultModel("gpt-4o"),
		azure.WithResource("contoso"),
	)
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), func(r *textgen.RequestBuilder) {
		r.Prompt = "Question"
		r.MaxOutputTokens = textgen.IntPtr(100)
	})
	require.NoError(t, err)
	assert.Equal(t, "Answer", resp.Response)
	assert.Equal(t, int64(15), *resp.Usage.TotalTokens)

	rec, ok := eng.Last()
	require.True(t, ok)
	assert.Equal(t, "https://contoso.openai.azure.com/openai/deployments/gpt-4o/chat/completions?api-version="+azure.DefaultAPIVersion, rec.URL)
	assert.Equal(t, "az-key", rec.Header.Get("api-key"))
	assert.Empty(t, rec.Header.Get("Authorization"))

	body, err := rec.JSON()
	require.NoError(t, err)
	assert.Equal(t, float64(100), body["max_completion_tokens"])
	assert.NotContains(t, body, "max_tokens")
	assert.Equal(t, textgen.ClientAzure, c.Type())
}

func TestGenerate_CustomAPIVersion(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/openai/deployments/d1/chat/completions", 200, `{"choices":[]}`)
	c, err := azure.New(textgen.WithAPIKey("k"), textgen.WithEngine(eng),
		azure.WithResource("r"), azure.WithAPIVersion("2025-01-01-preview"))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), func(r *textgen.RequestBuilder) {
		r.Model = "d1"
		r.Prompt = "q"
	})
	require.NoError(t, err)

	rec, _ := eng.Last()
	assert.Equal(t, "api-version=2025-01-01-preview", rec.RawQuery)
}

func TestNew_RequiresResource(t *testing.T) {
	_, err := azure.New(textgen.WithAPIKey("k"))
	require.Error(t, err)
	assert.ErrorIs(t, err, textgen.ErrConfiguration)
	assert.Contains(t, err.Error(), "resource")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := azure.New(azure.WithResource("r"))
	assert.ErrorIs(t, err, textgen.ErrConfiguration)
}

func TestModels_FixedCatalog(t *testing.T) {
	eng := transporttest.New()
	c, err := azure.New(textgen.WithAPIKey("k"), azure.WithResource("r"), textgen.WithEngine(eng))
	require.NoError(t, err)

	models, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, models.Models)
	assert.Equal(t, int64(0), eng.CallCount())
}
