package cohere

import (
	"strings"

	"github.com/ineyio/textgen"
)

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	P              *float64        `json:"p,omitempty"`
	K              *int            `json:"k,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	StopSequences  []string        `json:"stop_sequences,omitempty"`
	Seed           *int64          `json:"seed,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

type tokenCounts struct {
	InputTokens  *int64 `json:"input_tokens"`
	OutputTokens *int64 `json:"output_tokens"`
}

type chatResponse struct {
	ID           string `json:"id"`
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Usage *struct {
		BilledUnits *tokenCounts `json:"billed_units"`
		Tokens      *tokenCounts `json:"tokens"`
	} `json:"usage"`
}

type modelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func toWire(req Request) chatRequest {
	_, msgs := req.Conversation(textgen.SystemAsMessage)
	wire := chatRequest{
		Model:         req.Model,
		Messages:      make([]chatMessage, len(msgs)),
		Temperature:   req.Temperature,
		P:             req.TopP,
		K:             req.K,
		MaxTokens:     req.MaxOutputTokens,
		StopSequences: req.StopSequences,
		Seed:          req.Seed,
	}
	for i, m := range msgs {
		wire.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	if f := req.ResponseFormat; f != nil {
		switch f.Kind {
		case textgen.FormatText:
			wire.ResponseFormat = &responseFormat{Type: "text"}
		case textgen.FormatJSONObject:
			wire.ResponseFormat = &responseFormat{Type: "json_object"}
		case textgen.FormatJSONSchema:
			wire.ResponseFormat = &responseFormat{Type: "json_object", JSONSchema: f.Schema}
		}
	}
	return wire
}

func fromWire(w chatResponse, model string) Response {
	out := Response{
		GenerateTextResponse: textgen.GenerateTextResponse{
			ID:           w.ID,
			Model:        model,
			FinishReason: strings.ToLower(w.FinishReason),
		},
	}
	for _, c := range w.Message.Content {
		if c.Type == "" || c.Type == "text" {
			out.Response = c.Text
			break
		}
	}
	if u := w.Usage; u != nil {
		t := u.Tokens
		if t == nil {
			t = u.BilledUnits
		}
		if t != nil {
			var total *int64
			if t.InputTokens != nil && t.OutputTokens != nil {
				total = textgen.Int64Ptr(*t.InputTokens + *t.OutputTokens)
			}
			out.Usage = textgen.NewUsage(t.InputTokens, t.OutputTokens, total)
		}
		if b := u.BilledUnits; b != nil {
			out.BilledInputTokens = b.InputTokens
			out.BilledOutputTokens = b.OutputTokens
		}
	}
	return out
}
