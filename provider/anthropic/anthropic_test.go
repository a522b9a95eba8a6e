package anthropic_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/provider/anthropic"
	"github.com/ineyio/textgen/transport/transporttest"
)

const answer = `{
	"id": "msg_1",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-5",
	"content": [{"type": "text", "text": "Answer"}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 10, "output_tokens": 5, "cache_read_input_tokens": 3}
}`

func newClient(t *testing.T, eng *transporttest.Engine) *anthropic.Client {
	t.Helper()
	c, err := anthropic.New(
		textgen.WithAPIKey("ak-test"),
		textgen.WithEngine(eng),
		textgen.WithDefaultModel("default-model"),
		textgen.WithDefaultTemperature(0.66),
	)
	require.NoError(t, err)
	return c
}

type message struct {
	role string
	text string
}

func messages(t *testing.T, body map[string]any) []message {
	t.Helper()
	raw, ok := body["messages"].([]any)
	require.True(t, ok)
	out := make([]message, 0, len(raw))
	for _, r := range raw {
		m := r.(map[string]any)
		content := m["content"].([]any)
		require.Len(t, content, 1)
		block := content[0].(map[string]any)
		assert.Equal(t, "text", block["type"])
		out = append(out, message{role: m["role"].(string), text: block["text"].(string)})
	}
	return out
}

func TestGenerate_PromptOnly(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/v1/messages", 200, answer)
	c := newClient(t, eng)

	resp, err := c.Generate(context.Background(), func(r *textgen.RequestBuilder) { r.Prompt = "Question" })
	require.NoError(t, err)
	assert.Equal(t, "Answer", resp.Response)
	assert.Equal(t, "end_turn", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, int64(10), *resp.Usage.InputTokens)
	assert.Equal(t, int64(5), *resp.Usage.OutputTokens)
	assert.Equal(t, int64(15), *resp.Usage.TotalTokens)

	rec, ok := eng.Last()
	require.True(t, ok)
	assert.Equal(t, "ak-test", rec.Header.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", rec.Header.Get("anthropic-version"))

	body, err := rec.JSON()
	require.NoError(t, err)
	assert.Equal(t, []message{{"user", "Question"}}, messages(t, body))
	assert.Equal(t, "default-model", body["model"])
	assert.Equal(t, 0.66, body["temperature"])
	assert.Equal(t, float64(anthropic.DefaultMaxTokens), body["max_tokens"])
	assert.NotContains(t, body, "system")
	assert.NotContains(t, body, "top_p")
	assert.NotContains(t, body, "top_k")
	assert.NotContains(t, body, "stop_sequences")
}

func TestGenerate_SystemFieldAndOrdering(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/v1/messages", 200, answer)
	c := newClient(t, eng)

	_, err := c.Generate(context.Background(), func(r *textgen.RequestBuilder) {
		r.Model = "Y"
		r.SystemInstructions = "be brief"
		r.Message(textgen.RoleUser, "first")
		r.Message(textgen.RoleAssistant, "second")
		r.Prompt = "third"
		r.MaxOutputTokens = textgen.IntPtr(100)
		r.Stop("END")
		r.ResponseFormat = textgen.JSONObjectFormat()
	})
	require.NoError(t, err)

	rec, _ := eng.Last()
	body, err := rec.JSON()
	require.NoError(t, err)

	assert.Equal(t, "Y", body["model"])
	assert.Equal(t, []message{{"user", "first"}, {"assistant", "second"}, {"user", "third"}}, messages(t, body))

	system := body["system"].([]any)
	require.Len(t, system, 1)
	assert.Equal(t, "be brief", system[0].(map[string]any)["text"])

	assert.Equal(t, float64(100), body["max_tokens"])
	assert.Equal(t, []any{"END"}, body["stop_sequences"])
	assert.NotContains(t, body, "response_format")
}

func TestGenerateWith_TopKAndCacheTokens(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/v1/messages", 200, answer)
	c := newClient(t, eng)

	resp, err := c.GenerateWith(context.Background(), func(r *anthropic.RequestBuilder) {
		r.Prompt = "q"
		r.TopK = textgen.Int64Ptr(40)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), *resp.CacheReadTokens)
	assert.Nil(t, resp.CacheCreationTokens)
	require.Len(t, resp.Content, 1)

	rec, _ := eng.Last()
	body, _ := rec.JSON()
	assert.Equal(t, float64(40), body["top_k"])
}

func TestGenerate_MissingCountersAndEmptyContent(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/v1/messages", 200,
		`{"content":[{"type":"thinking","thinking":"hmm"}],"usage":{"output_tokens":2}}`)
	c := newClient(t, eng)

	resp, err := c.Generate(context.Background(), func(r *textgen.RequestBuilder) { r.Prompt = "q" })
	require.NoError(t, err)
	assert.Equal(t, "", resp.Response)
	require.NotNil(t, resp.Usage)
	assert.Nil(t, resp.Usage.InputTokens)
	assert.Equal(t, int64(2), *resp.Usage.OutputTokens)
	assert.Nil(t, resp.Usage.TotalTokens)
}

func TestGenerateText_Overlay(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/v1/messages", 200, answer)
	c := newClient(t, eng)

	_, err := c.GenerateText(context.Background(), textgen.GenerateTextRequest{Prompt: "q", TopP: textgen.Float64Ptr(0.5)})
	require.NoError(t, err)

	rec, _ := eng.Last()
	body, _ := rec.JSON()
	assert.Equal(t, "default-model", body["model"])
	assert.Equal(t, 0.66, body["temperature"])
	assert.Equal(t, 0.5, body["top_p"])
}

func TestGenerate_Errors(t *testing.T) {
	eng := transporttest.New().On(http.MethodPost, "/v1/messages", 401, `{"type":"error"}`)
	c := newClient(t, eng)

	_, err := c.Generate(context.Background(), func(r *textgen.RequestBuilder) { r.Prompt = "q" })
	assert.ErrorIs(t, err, textgen.ErrAuthFailed)

	c.Core().DefaultModel = ""
	calls := eng.CallCount()
	_, err = c.Generate(context.Background(), func(r *textgen.RequestBuilder) { r.Prompt = "q" })
	assert.ErrorIs(t, err, textgen.ErrMissingField)
	assert.Equal(t, calls, eng.CallCount())
}

func TestModels(t *testing.T) {
	eng := transporttest.New().On(http.MethodGet, "/v1/models", 200,
		`{"data":[{"id":"claude-sonnet-4-5","display_name":"Claude Sonnet 4.5","type":"model"}],"has_more":false}`)
	c := newClient(t, eng)

	models, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []textgen.Model{{ID: "claude-sonnet-4-5", Name: "Claude Sonnet 4.5"}}, models.Models)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := anthropic.New()
	assert.ErrorIs(t, err, textgen.ErrConfiguration)
}
