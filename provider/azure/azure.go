// Package azure is the Azure OpenAI adapter. Requests go to a per-resource
// host and name the deployment in the path; the wire format is OpenAI's.
package azure

import (
	"fmt"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/provider/openaicompat"
)

// DefaultAPIVersion is sent when no api_version option is configured.
const DefaultAPIVersion = "2024-10-21"

// Option keys.
const (
	OptionResource   = "resource"
	OptionAPIVersion = "api_version"
)

// Deployments are per resource and have no public discovery endpoint for API
// keys, so the catalog lists the base models deployments are usually named
// after.
var catalog = []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini", "o3-mini", "o4-mini"}

// Client is an Azure OpenAI client.
type Client struct {
	*openaicompat.Client
}

var _ textgen.Client = (*Client)(nil)

// WithResource sets the Azure resource name ({resource}.openai.azure.com).
func WithResource(name string) textgen.Option {
	return textgen.WithOption(OptionResource, name)
}

// WithAPIVersion overrides DefaultAPIVersion.
func WithAPIVersion(v string) textgen.Option {
	return textgen.WithOption(OptionAPIVersion, v)
}

// New creates an Azure OpenAI client. The resource option is required unless
// a base URL is configured.
func New(opts ...textgen.Option) (*Client, error) {
	s := textgen.NewSettings(opts...)

	base := s.BaseURL
	if base == "" {
		resource, err := s.Require(textgen.ClientAzure, OptionResource)
		if err != nil {
			return nil, err
		}
		base = fmt.Sprintf("https://%s.openai.azure.com", resource)
	}

	version := s.Option(OptionAPIVersion)
	if version == "" {
		version = DefaultAPIVersion
	}

	inner, err := openaicompat.NewFromSettings(openaicompat.Profile{
		Kind:                textgen.ClientAzure,
		BaseURL:             base,
		ChatPathFor:         openaicompat.DeploymentPath,
		Catalog:             catalog,
		JSONSchema:          true,
		MaxCompletionTokens: true,
		AuthHeader:          "api-key",
		Query:               map[string]string{"api-version": version},
	}, s)
	if err != nil {
		return nil, err
	}
	return &Client{Client: inner}, nil
}
