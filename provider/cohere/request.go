package cohere

import "github.com/ineyio/textgen"

// Request is a generation request with Cohere extensions.
type Request struct {
	textgen.GenerateTextRequest

	K    *int
	Seed *int64
}

// RequestBuilder stages a Request.
type RequestBuilder struct {
	textgen.RequestBuilder

	K    *int
	Seed *int64
}

// Build validates the generic fields and attaches the extensions.
func (b *RequestBuilder) Build() (Request, error) {
	req, err := b.RequestBuilder.Build()
	if err != nil {
		return Request{}, err
	}
	out := Request{GenerateTextRequest: req}
	if b.K != nil {
		out.K = textgen.IntPtr(*b.K)
	}
	if b.Seed != nil {
		out.Seed = textgen.Int64Ptr(*b.Seed)
	}
	return out, nil
}

// Response is the generic response plus Cohere extensions. Usage mirrors
// usage.tokens, or the billed units when the vendor omits tokens.
type Response struct {
	textgen.GenerateTextResponse

	BilledInputTokens  *int64
	BilledOutputTokens *int64
}
