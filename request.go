package textgen

import (
	"slices"
	"strings"
)

// GenerateTextRequest is a validated, vendor-agnostic generation request.
// Obtain one from RequestBuilder.Build; treat it as immutable afterwards.
type GenerateTextRequest struct {
	Model              string          `json:"model,omitempty"`
	Prompt             string          `json:"prompt,omitempty"`
	SystemInstructions string          `json:"systemInstructions,omitempty"`
	ResponseFormat     *ResponseFormat `json:"responseFormat,omitempty"`
	ChatHistory        []TextMessage   `json:"chatHistory,omitempty"`
	MaxOutputTokens    *int            `json:"maxOutputTokens,omitempty"`
	StopSequences      []string        `json:"stopSequences,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
	TopP               *float64        `json:"topP,omitempty"`
}

// Defaults are the client-level values staged into every new builder.
type Defaults struct {
	Model       string
	Temperature *float64
}

// RequestBuilder stages request fields before Build validates and freezes
// them. A builder belongs to a single call and is not safe for concurrent use.
type RequestBuilder struct {
	Model              string
	Prompt             string
	SystemInstructions string
	ResponseFormat     *ResponseFormat
	ChatHistory        []TextMessage
	MaxOutputTokens    *int
	StopSequences      []string
	Temperature        *float64
	TopP               *float64
}

// NewRequestBuilder returns an empty builder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{ChatHistory: []TextMessage{}}
}

// ApplyDefaults stages client defaults. Values already on the builder are
// replaced, so call it before anything caller-supplied.
func (b *RequestBuilder) ApplyDefaults(d Defaults) *RequestBuilder {
	if d.Model != "" {
		b.Model = d.Model
	}
	if d.Temperature != nil {
		b.Temperature = Float64Ptr(*d.Temperature)
	}
	return b
}

// ApplyRequest overlays every present field of req onto the builder. Absent
// fields leave the staged value in place.
func (b *RequestBuilder) ApplyRequest(req GenerateTextRequest) *RequestBuilder {
	if req.Model != "" {
		b.Model = req.Model
	}
	if req.Prompt != "" {
		b.Prompt = req.Prompt
	}
	if req.SystemInstructions != "" {
		b.SystemInstructions = req.SystemInstructions
	}
	if req.ResponseFormat != nil {
		b.ResponseFormat = req.ResponseFormat.clone()
	}
	if len(req.ChatHistory) > 0 {
		b.ChatHistory = slices.Clone(req.ChatHistory)
	}
	if req.MaxOutputTokens != nil {
		b.MaxOutputTokens = IntPtr(*req.MaxOutputTokens)
	}
	if len(req.StopSequences) > 0 {
		b.StopSequences = slices.Clone(req.StopSequences)
	}
	if req.Temperature != nil {
		b.Temperature = Float64Ptr(*req.Temperature)
	}
	if req.TopP != nil {
		b.TopP = Float64Ptr(*req.TopP)
	}
	return b
}

// Message appends a history turn.
func (b *RequestBuilder) Message(role, content string) *RequestBuilder {
	b.ChatHistory = append(b.ChatHistory, TextMessage{Role: role, Content: content})
	return b
}

// Stop adds stop sequences.
func (b *RequestBuilder) Stop(seqs ...string) *RequestBuilder {
	b.StopSequences = append(b.StopSequences, seqs...)
	return b
}

// Build validates the staged fields and returns an independent copy.
func (b *RequestBuilder) Build() (GenerateTextRequest, error) {
	if strings.TrimSpace(b.Model) == "" {
		return GenerateTextRequest{}, &ValidationError{Field: "model", Reason: "no model set and no client default", Err: ErrMissingField}
	}
	if b.MaxOutputTokens != nil && *b.MaxOutputTokens <= 0 {
		return GenerateTextRequest{}, &ValidationError{Field: "maxOutputTokens", Value: *b.MaxOutputTokens, Reason: "must be positive", Err: ErrInvalidRequest}
	}
	if b.ResponseFormat != nil {
		if err := b.ResponseFormat.Validate(); err != nil {
			return GenerateTextRequest{}, err
		}
	}

	req := GenerateTextRequest{
		Model:              b.Model,
		Prompt:             b.Prompt,
		SystemInstructions: b.SystemInstructions,
		ResponseFormat:     b.ResponseFormat.clone(),
		ChatHistory:        make([]TextMessage, len(b.ChatHistory)),
		StopSequences:      dedupe(b.StopSequences),
	}
	copy(req.ChatHistory, b.ChatHistory)
	if b.MaxOutputTokens != nil {
		req.MaxOutputTokens = IntPtr(*b.MaxOutputTokens)
	}
	if b.Temperature != nil {
		req.Temperature = Float64Ptr(*b.Temperature)
	}
	if b.TopP != nil {
		req.TopP = Float64Ptr(*b.TopP)
	}
	return req, nil
}

// dedupe keeps the first occurrence of each sequence, returning nil when
// nothing remains.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// SystemPlacement selects where a vendor expects system instructions.
type SystemPlacement int

const (
	// SystemAsMessage synthesizes a leading "system" message.
	SystemAsMessage SystemPlacement = iota
	// SystemAsField returns the instructions separately for a dedicated
	// top-level field.
	SystemAsField
)

// Conversation assembles the outgoing message list: system instructions at
// the placement's position, then history in order, then the prompt as the
// final user turn. With SystemAsField, history messages with the system role
// are folded into the returned system text after SystemInstructions.
func (r GenerateTextRequest) Conversation(p SystemPlacement) (system string, messages []TextMessage) {
	messages = make([]TextMessage, 0, len(r.ChatHistory)+2)

	switch p {
	case SystemAsField:
		parts := make([]string, 0, 1)
		if r.SystemInstructions != "" {
			parts = append(parts, r.SystemInstructions)
		}
		for _, m := range r.ChatHistory {
			if m.Role == RoleSystem {
				if m.Content != "" {
					parts = append(parts, m.Content)
				}
				continue
			}
			messages = append(messages, m)
		}
		system = strings.Join(parts, "\n\n")
	default:
		if r.SystemInstructions != "" {
			messages = append(messages, SystemMessage(r.SystemInstructions))
		}
		messages = append(messages, r.ChatHistory...)
	}

	if r.Prompt != "" {
		messages = append(messages, UserMessage(r.Prompt))
	}
	return system, messages
}
