package bedrock

import (
	"strings"

	"github.com/ineyio/textgen"
)

type converseRequest struct {
	Messages                     []message        `json:"messages"`
	System                       []contentBlock   `json:"system,omitempty"`
	InferenceConfig              *inferenceConfig `json:"inferenceConfig,omitempty"`
	AdditionalModelRequestFields map[string]any   `json:"additionalModelRequestFields,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Text string `json:"text"`
}

type inferenceConfig struct {
	MaxTokens     *int     `json:"maxTokens,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"topP,omitempty"`
	StopSequences []string `json:"stopSequences,omitempty"`
}

type converseResponse struct {
	Output struct {
		Message *struct {
			Role    string `json:"role"`
			Content []struct {
				Text *string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
	StopReason string `json:"stopReason"`
	Usage      *struct {
		InputTokens  *int64 `json:"inputTokens"`
		OutputTokens *int64 `json:"outputTokens"`
		TotalTokens  *int64 `json:"totalTokens"`
	} `json:"usage"`
	Metrics *struct {
		LatencyMs *int64 `json:"latencyMs"`
	} `json:"metrics"`
}

func toWire(req Request) converseRequest {
	system, msgs := req.Conversation(textgen.SystemAsField)
	wire := converseRequest{
		Messages:                     make([]message, len(msgs)),
		AdditionalModelRequestFields: req.AdditionalModelRequestFields,
	}
	if system != "" {
		wire.System = []contentBlock{{Text: system}}
	}
	for i, m := range msgs {
		wire.Messages[i] = message{Role: m.Role, Content: []contentBlock{{Text: m.Content}}}
	}
	if req.MaxOutputTokens != nil || req.Temperature != nil || req.TopP != nil || len(req.StopSequences) > 0 {
		wire.InferenceConfig = &inferenceConfig{
			MaxTokens:     req.MaxOutputTokens,
			Temperature:   req.Temperature,
			TopP:          req.TopP,
			StopSequences: req.StopSequences,
		}
	}
	return wire
}

func fromWire(w converseResponse, model string) Response {
	out := Response{
		GenerateTextResponse: textgen.GenerateTextResponse{
			Model:        model,
			FinishReason: strings.ToLower(w.StopReason),
		},
	}
	if m := w.Output.Message; m != nil {
		for _, c := range m.Content {
			if c.Text != nil {
				out.Response = *c.Text
				break
			}
		}
	}
	if u := w.Usage; u != nil {
		out.Usage = textgen.NewUsage(u.InputTokens, u.OutputTokens, u.TotalTokens)
	}
	if w.Metrics != nil {
		out.LatencyMs = w.Metrics.LatencyMs
	}
	return out
}
