package yandex

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ineyio/textgen"
)

type completionRequest struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions completionOptions `json:"completionOptions"`
	Messages          []message         `json:"messages"`
	JSONObject        bool              `json:"jsonObject,omitempty"`
	JSONSchema        *jsonSchema       `json:"jsonSchema,omitempty"`
}

type completionOptions struct {
	Stream           bool              `json:"stream"`
	Temperature      *float64          `json:"temperature,omitempty"`
	MaxTokens        *int              `json:"maxTokens,omitempty,string"`
	ReasoningOptions *reasoningOptions `json:"reasoningOptions,omitempty"`
}

type reasoningOptions struct {
	Mode ReasoningMode `json:"mode"`
}

type message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type jsonSchema struct {
	Schema map[string]any `json:"schema"`
}

// counter decodes an int64 sent either as a JSON string or a number.
type counter struct {
	v *int64
}

var _ json.Unmarshaler = (*counter)(nil)

func (c *counter) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	c.v = &n
	return nil
}

type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message message `json:"message"`
			Status  string  `json:"status"`
		} `json:"alternatives"`
		Usage *struct {
			InputTextTokens         counter `json:"inputTextTokens"`
			CompletionTokens        counter `json:"completionTokens"`
			TotalTokens             counter `json:"totalTokens"`
			CompletionTokensDetails *struct {
				ReasoningTokens counter `json:"reasoningTokens"`
			} `json:"completionTokensDetails"`
		} `json:"usage"`
		ModelVersion string `json:"modelVersion"`
	} `json:"result"`
}

func modelURI(folder, model string) string {
	if strings.Contains(model, "://") {
		return model
	}
	return "gpt://" + folder + "/" + model
}

func toWire(req Request, folder string) completionRequest {
	_, msgs := req.Conversation(textgen.SystemAsMessage)
	wire := completionRequest{
		ModelURI: modelURI(folder, req.Model),
		CompletionOptions: completionOptions{
			Temperature: req.Temperature,
			MaxTokens:   req.MaxOutputTokens,
		},
		Messages: make([]message, len(msgs)),
	}
	if req.Reasoning != "" {
		wire.CompletionOptions.ReasoningOptions = &reasoningOptions{Mode: req.Reasoning}
	}
	for i, m := range msgs {
		wire.Messages[i] = message{Role: m.Role, Text: m.Content}
	}
	if f := req.ResponseFormat; f != nil {
		switch f.Kind {
		case textgen.FormatJSONObject:
			wire.JSONObject = true
		case textgen.FormatJSONSchema:
			wire.JSONSchema = &jsonSchema{Schema: f.Schema}
		}
	}
	return wire
}

func fromWire(w completionResponse, model string) Response {
	out := Response{
		GenerateTextResponse: textgen.GenerateTextResponse{Model: model},
		ModelVersion:         w.Result.ModelVersion,
	}
	if alts := w.Result.Alternatives; len(alts) > 0 {
		out.Response = alts[0].Message.Text
		out.FinishReason = strings.ToLower(strings.TrimPrefix(alts[0].Status, "ALTERNATIVE_STATUS_"))
	}
	if u := w.Result.Usage; u != nil {
		out.Usage = textgen.NewUsage(u.InputTextTokens.v, u.CompletionTokens.v, u.TotalTokens.v)
		if d := u.CompletionTokensDetails; d != nil {
			out.ReasoningTokens = d.ReasoningTokens.v
		}
	}
	return out
}
