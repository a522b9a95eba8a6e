package openaicompat

import "github.com/ineyio/textgen"

// Request is a generation request with the OpenAI-style extensions.
type Request struct {
	textgen.GenerateTextRequest

	FrequencyPenalty *float64
	PresencePenalty  *float64
	Seed             *int64
	User             string
}

// RequestBuilder stages a Request.
type RequestBuilder struct {
	textgen.RequestBuilder

	FrequencyPenalty *float64
	PresencePenalty  *float64
	Seed             *int64
	User             string
}

// Build validates the generic fields and attaches the extensions.
func (b *RequestBuilder) Build() (Request, error) {
	req, err := b.RequestBuilder.Build()
	if err != nil {
		return Request{}, err
	}
	out := Request{GenerateTextRequest: req, User: b.User}
	if b.FrequencyPenalty != nil {
		out.FrequencyPenalty = textgen.Float64Ptr(*b.FrequencyPenalty)
	}
	if b.PresencePenalty != nil {
		out.PresencePenalty = textgen.Float64Ptr(*b.PresencePenalty)
	}
	if b.Seed != nil {
		out.Seed = textgen.Int64Ptr(*b.Seed)
	}
	return out, nil
}

// Response is the generic response plus what OpenAI-style vendors add.
type Response struct {
	textgen.GenerateTextResponse

	Choices           []Choice
	Created           int64
	SystemFingerprint string
	ReasoningTokens   *int64
	CachedTokens      *int64
}

// Choice is one completion alternative.
type Choice struct {
	Index        int
	Message      textgen.TextMessage
	FinishReason string
}
