package textgen

import (
	"fmt"
	"strings"
)

// ClientType identifies a supported vendor.
type ClientType string

const (
	ClientOpenAI    ClientType = "openai"
	ClientAzure     ClientType = "azure"
	ClientGrok      ClientType = "grok"
	ClientMistral   ClientType = "mistral"
	ClientCerebras  ClientType = "cerebras"
	ClientDeepSeek  ClientType = "deepseek"
	ClientAI21      ClientType = "ai21"
	ClientGonka     ClientType = "gonka"
	ClientAnthropic ClientType = "anthropic"
	ClientGoogle    ClientType = "google"
	ClientCohere    ClientType = "cohere"
	ClientBedrock   ClientType = "bedrock"
	ClientYandex    ClientType = "yandex"
	ClientLorem     ClientType = "lorem"
)

var allClientTypes = []ClientType{
	ClientOpenAI,
	ClientAzure,
	ClientGrok,
	ClientMistral,
	ClientCerebras,
	ClientDeepSeek,
	ClientAI21,
	ClientGonka,
	ClientAnthropic,
	ClientGoogle,
	ClientCohere,
	ClientBedrock,
	ClientYandex,
	ClientLorem,
}

// AllClientTypes returns every supported client type in a stable order.
func AllClientTypes() []ClientType {
	out := make([]ClientType, len(allClientTypes))
	copy(out, allClientTypes)
	return out
}

// IsValid reports whether t is one of the supported client types.
func (t ClientType) IsValid() bool {
	for _, c := range allClientTypes {
		if c == t {
			return true
		}
	}
	return false
}

func (t ClientType) String() string { return string(t) }

// ParseClientType parses a client type case-insensitively.
func ParseClientType(s string) (ClientType, error) {
	t := ClientType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedClient, s)
	}
	return t, nil
}

// UnmarshalText lets ClientType be decoded from YAML and flags.
func (t *ClientType) UnmarshalText(text []byte) error {
	v, err := ParseClientType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
