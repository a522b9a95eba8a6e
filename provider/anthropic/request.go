package anthropic

import "github.com/ineyio/textgen"

// Request is a generation request with Anthropic extensions.
type Request struct {
	textgen.GenerateTextRequest

	TopK *int64
}

// RequestBuilder stages a Request.
type RequestBuilder struct {
	textgen.RequestBuilder

	TopK *int64
}

// Build validates the generic fields and attaches the extensions.
func (b *RequestBuilder) Build() (Request, error) {
	req, err := b.RequestBuilder.Build()
	if err != nil {
		return Request{}, err
	}
	out := Request{GenerateTextRequest: req}
	if b.TopK != nil {
		out.TopK = textgen.Int64Ptr(*b.TopK)
	}
	return out, nil
}

// Response is the generic response plus Anthropic extensions.
type Response struct {
	textgen.GenerateTextResponse

	// Content holds every returned content block in order.
	Content             []ContentBlock
	StopSequence        string
	CacheReadTokens     *int64
	CacheCreationTokens *int64
}

// ContentBlock is one block of the assistant message.
type ContentBlock struct {
	Type string
	Text string
}
