package bedrock

import (
	"maps"

	"github.com/ineyio/textgen"
)

// Request is a generation request with Bedrock extensions.
type Request struct {
	textgen.GenerateTextRequest

	// AdditionalModelRequestFields is passed through to the underlying model
	// (e.g. {"top_k": 200} for Anthropic models).
	AdditionalModelRequestFields map[string]any
}

// RequestBuilder stages a Request.
type RequestBuilder struct {
	textgen.RequestBuilder

	AdditionalModelRequestFields map[string]any
}

// Build validates the generic fields and attaches the extensions.
func (b *RequestBuilder) Build() (Request, error) {
	req, err := b.RequestBuilder.Build()
	if err != nil {
		return Request{}, err
	}
	return Request{
		GenerateTextRequest:          req,
		AdditionalModelRequestFields: maps.Clone(b.AdditionalModelRequestFields),
	}, nil
}

// Response is the generic response plus Bedrock extensions.
type Response struct {
	textgen.GenerateTextResponse

	LatencyMs *int64
}
