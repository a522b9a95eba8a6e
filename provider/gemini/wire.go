package gemini

import (
	"strings"

	"github.com/ineyio/textgen"
)

// Gemini API types.
type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text    string `json:"text"`
	Thought bool   `json:"thought,omitempty"`
}

type generationConfig struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxOutputTokens  *int           `json:"maxOutputTokens,omitempty"`
	TopP             *float64       `json:"topP,omitempty"`
	TopK             *int           `json:"topK,omitempty"`
	CandidateCount   *int           `json:"candidateCount,omitempty"`
	StopSequences    []string       `json:"stopSequences,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount        *int64 `json:"promptTokenCount"`
		CandidatesTokenCount    *int64 `json:"candidatesTokenCount"`
		TotalTokenCount         *int64 `json:"totalTokenCount"`
		ThoughtsTokenCount      *int64 `json:"thoughtsTokenCount"`
		CachedContentTokenCount *int64 `json:"cachedContentTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
	ResponseID   string `json:"responseId"`
}

type modelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

func toWire(req Request) generateRequest {
	system, msgs := req.Conversation(textgen.SystemAsField)

	gr := generateRequest{Contents: make([]content, len(msgs))}
	for i, m := range msgs {
		role := m.Role
		if role == textgen.RoleAssistant {
			role = "model"
		}
		gr.Contents[i] = content{Role: role, Parts: []part{{Text: m.Content}}}
	}
	if system != "" {
		gr.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	cfg := generationConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
		TopP:            req.TopP,
		TopK:            req.TopK,
		CandidateCount:  req.CandidateCount,
		StopSequences:   req.StopSequences,
	}
	if f := req.ResponseFormat; f != nil {
		switch f.Kind {
		case textgen.FormatText:
			cfg.ResponseMimeType = "text/plain"
		case textgen.FormatJSONObject:
			cfg.ResponseMimeType = "application/json"
		case textgen.FormatJSONSchema:
			cfg.ResponseMimeType = "application/json"
			cfg.ResponseSchema = f.Schema
		}
	}
	if cfg.Temperature != nil || cfg.MaxOutputTokens != nil || cfg.TopP != nil || cfg.TopK != nil ||
		cfg.CandidateCount != nil || len(cfg.StopSequences) > 0 || cfg.ResponseMimeType != "" {
		gr.GenerationConfig = &cfg
	}
	return gr
}

func fromWire(w generateResponse, model string) Response {
	out := Response{
		GenerateTextResponse: textgen.GenerateTextResponse{
			ID:    w.ResponseID,
			Model: w.ModelVersion,
		},
		Candidates: make([]Candidate, len(w.Candidates)),
	}
	if out.Model == "" {
		out.Model = model
	}
	for i, c := range w.Candidates {
		var sb strings.Builder
		for _, p := range c.Content.Parts {
			if !p.Thought {
				sb.WriteString(p.Text)
			}
		}
		out.Candidates[i] = Candidate{Text: sb.String(), FinishReason: strings.ToLower(c.FinishReason)}
	}
	if len(out.Candidates) > 0 {
		out.Response = out.Candidates[0].Text
		out.FinishReason = out.Candidates[0].FinishReason
	}
	if u := w.UsageMetadata; u != nil {
		out.Usage = textgen.NewUsage(u.PromptTokenCount, u.CandidatesTokenCount, u.TotalTokenCount)
		out.ThoughtsTokens = u.ThoughtsTokenCount
		out.CachedTokens = u.CachedContentTokenCount
	}
	return out
}
