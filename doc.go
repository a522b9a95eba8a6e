// Package textgen is a unified client for vendor chat-completion APIs.
//
// Callers build one generic request and get back one generic response; each
// vendor package under provider/ translates to and from that vendor's wire
// format. Clients are usually obtained through the clients registry:
//
//	b, err := clients.NewBuilder(textgen.ClientOpenAI)
//	client, err := b.APIKey(key).DefaultModel("gpt-4o-mini").Build()
//	resp, err := client.Generate(ctx, func(r *textgen.RequestBuilder) {
//		r.Prompt = "Question"
//	})
//
// Client defaults are applied before the caller's values, so anything the
// caller sets wins and anything it leaves unset falls back to the default.
package textgen
