package openaicompat

import "github.com/ineyio/textgen"

// chatRequest is the OpenAI chat completion request format.
type chatRequest struct {
	Messages            []chatMessage   `json:"messages"`
	Model               string          `json:"model"`
	Temperature         *float64        `json:"temperature,omitempty"`
	TopP                *float64        `json:"top_p,omitempty"`
	MaxTokens           *int            `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int            `json:"max_completion_tokens,omitempty"`
	Stop                []string        `json:"stop,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
	FrequencyPenalty    *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float64        `json:"presence_penalty,omitempty"`
	Seed                *int64          `json:"seed,omitempty"`
	User                string          `json:"user,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict *bool          `json:"strict,omitempty"`
}

// chatResponse is the OpenAI chat completion response format.
type chatResponse struct {
	ID                string `json:"id"`
	Model             string `json:"model"`
	Created           int64  `json:"created"`
	SystemFingerprint string `json:"system_fingerprint"`
	Choices           []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage"`
}

type chatUsage struct {
	PromptTokens        *int64 `json:"prompt_tokens"`
	CompletionTokens    *int64 `json:"completion_tokens"`
	TotalTokens         *int64 `json:"total_tokens"`
	PromptTokensDetails *struct {
		CachedTokens *int64 `json:"cached_tokens"`
	} `json:"prompt_tokens_details"`
	CompletionTokensDetails *struct {
		ReasoningTokens *int64 `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

type modelsResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

func toWire(p Profile, req Request) chatRequest {
	_, msgs := req.Conversation(textgen.SystemAsMessage)
	wire := chatRequest{
		Messages:         make([]chatMessage, len(msgs)),
		Model:            req.Model,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		Stop:             req.StopSequences,
		ResponseFormat:   toResponseFormat(p, req.ResponseFormat),
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Seed:             req.Seed,
		User:             req.User,
	}
	for i, m := range msgs {
		wire.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	if p.MaxCompletionTokens {
		wire.MaxCompletionTokens = req.MaxOutputTokens
	} else {
		wire.MaxTokens = req.MaxOutputTokens
	}
	return wire
}

func toResponseFormat(p Profile, f *textgen.ResponseFormat) *responseFormat {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case textgen.FormatText:
		return &responseFormat{Type: "text"}
	case textgen.FormatJSONObject:
		return &responseFormat{Type: "json_object"}
	case textgen.FormatJSONSchema:
		if !p.JSONSchema {
			return nil
		}
		return &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: f.SchemaName(), Schema: f.Schema, Strict: f.Strict},
		}
	default:
		return nil
	}
}

func fromWire(w chatResponse) Response {
	out := Response{
		GenerateTextResponse: textgen.GenerateTextResponse{
			ID:    w.ID,
			Model: w.Model,
		},
		Created:           w.Created,
		SystemFingerprint: w.SystemFingerprint,
		Choices:           make([]Choice, len(w.Choices)),
	}
	for i, c := range w.Choices {
		out.Choices[i] = Choice{
			Index:        c.Index,
			Message:      textgen.TextMessage{Role: c.Message.Role, Content: c.Message.Content},
			FinishReason: c.FinishReason,
		}
	}
	if len(w.Choices) > 0 {
		out.Response = w.Choices[0].Message.Content
		out.FinishReason = w.Choices[0].FinishReason
	}
	if u := w.Usage; u != nil {
		out.Usage = textgen.NewUsage(u.PromptTokens, u.CompletionTokens, u.TotalTokens)
		if u.PromptTokensDetails != nil {
			out.CachedTokens = u.PromptTokensDetails.CachedTokens
		}
		if u.CompletionTokensDetails != nil {
			out.ReasoningTokens = u.CompletionTokensDetails.ReasoningTokens
		}
	}
	return out
}
