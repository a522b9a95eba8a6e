// Package gonka is the adapter for the Gonka decentralized AI compute network.
// Nodes speak the OpenAI chat completions dialect; every request body is
// signed with the caller's secp256k1 key.
//
// The API key is the hex-encoded secp256k1 private key. The signing engine
// reads it from the Authorization header, replaces it with the ECDSA
// signature and adds the Gonka-specific headers.
package gonka

import (
	"time"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/provider/openaicompat"
)

// DefaultTimeout is generous for Gonka's P2P network.
const DefaultTimeout = 120 * time.Second

// OptionTransferAddress names the node's bech32 address, which is part of
// every signed message.
const OptionTransferAddress = "transfer_address"

var catalog = []string{
	"Qwen/Qwen3-235B-A22B-Instruct-2507-FP8",
	"Qwen/QwQ-32B",
}

// Client is a Gonka client.
type Client struct {
	*openaicompat.Client
}

var _ textgen.Client = (*Client)(nil)

// Endpoint represents a Gonka inference node.
type Endpoint struct {
	URL     string // HTTP endpoint (e.g. "https://node1.gonka.ai/v1")
	Address string // Cosmos bech32 address of the node (transfer_address in signing)
}

// WithEndpoint sets the node URL and transfer address.
func WithEndpoint(e Endpoint) textgen.Option {
	return func(s *textgen.Settings) {
		textgen.WithBaseURL(e.URL)(s)
		textgen.WithOption(OptionTransferAddress, e.Address)(s)
	}
}

// New creates a Gonka client. The endpoint URL, transfer address and a
// valid private key are required.
func New(opts ...textgen.Option) (*Client, error) {
	return newClient(textgen.NewSettings(opts...), time.Now)
}

func newClient(s textgen.Settings, now func() time.Time) (*Client, error) {
	if s.BaseURL == "" {
		return nil, textgen.Configurationf("%s: endpoint url is required", textgen.ClientGonka)
	}
	addr, err := s.Require(textgen.ClientGonka, OptionTransferAddress)
	if err != nil {
		return nil, err
	}
	key, err := s.RequireAPIKey(textgen.ClientGonka)
	if err != nil {
		return nil, err
	}

	signer := newSigningEngine(s.Engine, addr)
	signer.now = now
	if _, err := signer.keys.get(key); err != nil {
		return nil, err
	}

	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
	s.Engine = signer

	inner, err := openaicompat.NewFromSettings(openaicompat.Profile{
		Kind:     textgen.ClientGonka,
		ChatPath: "/chat/completions",
		Catalog:  catalog,
	}, s)
	if err != nil {
		return nil, err
	}
	return &Client{Client: inner}, nil
}
