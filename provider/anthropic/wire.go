package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ineyio/textgen"
)

// messageResponse decodes only what the client maps. Counters are pointers so
// that a missing one stays absent.
type messageResponse struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason"`
	StopSequence string `json:"stop_sequence"`
	Content      []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens              *int64 `json:"input_tokens"`
		OutputTokens             *int64 `json:"output_tokens"`
		CacheCreationInputTokens *int64 `json:"cache_creation_input_tokens"`
		CacheReadInputTokens     *int64 `json:"cache_read_input_tokens"`
	} `json:"usage"`
}

type modelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
}

// toWire builds the Messages API body. Response formats are not supported
// and are ignored.
func toWire(req Request) anthropic.MessageNewParams {
	system, msgs := req.Conversation(textgen.SystemAsField)

	maxTokens := int64(DefaultMaxTokens)
	if req.MaxOutputTokens != nil {
		maxTokens = int64(*req.MaxOutputTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  make([]anthropic.MessageParam, 0, len(msgs)),
		MaxTokens: maxTokens,
	}
	for _, m := range msgs {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == textgen.RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}
	if req.TopK != nil {
		params.TopK = anthropic.Int(*req.TopK)
	}
	if len(req.StopSequences) > 0 {
		params.StopSequences = req.StopSequences
	}
	return params
}

func fromWire(w messageResponse) Response {
	out := Response{
		GenerateTextResponse: textgen.GenerateTextResponse{
			ID:           w.ID,
			Model:        w.Model,
			FinishReason: w.StopReason,
		},
		StopSequence: w.StopSequence,
		Content:      make([]ContentBlock, len(w.Content)),
	}
	found := false
	for i, b := range w.Content {
		out.Content[i] = ContentBlock{Type: b.Type, Text: b.Text}
		if !found && b.Type == "text" {
			out.Response = b.Text
			found = true
		}
	}
	if u := w.Usage; u != nil {
		var total *int64
		if u.InputTokens != nil && u.OutputTokens != nil {
			total = textgen.Int64Ptr(*u.InputTokens + *u.OutputTokens)
		}
		out.Usage = textgen.NewUsage(u.InputTokens, u.OutputTokens, total)
		out.CacheReadTokens = u.CacheReadInputTokens
		out.CacheCreationTokens = u.CacheCreationInputTokens
	}
	return out
}
