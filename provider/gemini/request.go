package gemini

import "github.com/ineyio/textgen"

// Request is a generation request with Gemini extensions.
type Request struct {
	textgen.GenerateTextRequest

	TopK           *int
	CandidateCount *int
}

// RequestBuilder stages a Request.
type RequestBuilder struct {
	textgen.RequestBuilder

	TopK           *int
	CandidateCount *int
}

// Build validates the generic fields and attaches the extensions.
func (b *RequestBuilder) Build() (Request, error) {
	req, err := b.RequestBuilder.Build()
	if err != nil {
		return Request{}, err
	}
	out := Request{GenerateTextRequest: req}
	if b.TopK != nil {
		out.TopK = textgen.IntPtr(*b.TopK)
	}
	if b.CandidateCount != nil {
		out.CandidateCount = textgen.IntPtr(*b.CandidateCount)
	}
	return out, nil
}

// Response is the generic response plus Gemini extensions.
type Response struct {
	textgen.GenerateTextResponse

	Candidates     []Candidate
	ThoughtsTokens *int64
	CachedTokens   *int64
}

// Candidate is one generated alternative.
type Candidate struct {
	Text         string
	FinishReason string
}
