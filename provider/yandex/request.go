package yandex

import "github.com/ineyio/textgen"

// ReasoningMode controls whether the model reasons before answering.
type ReasoningMode string

const (
	ReasoningDisabled      ReasoningMode = "DISABLED"
	ReasoningEnabledHidden ReasoningMode = "ENABLED_HIDDEN"
)

// Request is a generation request with Yandex extensions.
type Request struct {
	textgen.GenerateTextRequest

	Reasoning ReasoningMode
}

// RequestBuilder stages a Request.
type RequestBuilder struct {
	textgen.RequestBuilder

	Reasoning ReasoningMode
}

// Build validates the generic fields and attaches the extensions.
func (b *RequestBuilder) Build() (Request, error) {
	req, err := b.RequestBuilder.Build()
	if err != nil {
		return Request{}, err
	}
	return Request{GenerateTextRequest: req, Reasoning: b.Reasoning}, nil
}

// Response is the generic response plus Yandex extensions.
type Response struct {
	textgen.GenerateTextResponse

	ModelVersion    string
	ReasoningTokens *int64
}
