package textgen

import (
	"encoding/json"
	"fmt"
	"maps"
)

// FormatKind discriminates the ResponseFormat variants.
type FormatKind string

const (
	FormatText       FormatKind = "text"
	FormatJSONObject FormatKind = "json_object"
	FormatJSONSchema FormatKind = "json_schema"
)

// DefaultSchemaName is used for JSON schema formats whose vendor requires a
// name when the caller supplied none.
const DefaultSchemaName = "response"

// ResponseFormat constrains the shape of the generated text. Schema is only
// meaningful, and required, for FormatJSONSchema.
type ResponseFormat struct {
	Kind   FormatKind     `json:"type" yaml:"type"`
	Name   string         `json:"name,omitempty" yaml:"name,omitempty"`
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Strict *bool          `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// TextFormat asks for free-form text.
func TextFormat() *ResponseFormat { return &ResponseFormat{Kind: FormatText} }

// JSONObjectFormat asks for any valid JSON object.
func JSONObjectFormat() *ResponseFormat { return &ResponseFormat{Kind: FormatJSONObject} }

// JSONSchemaFormat asks for JSON matching schema.
func JSONSchemaFormat(name string, schema map[string]any) *ResponseFormat {
	return &ResponseFormat{Kind: FormatJSONSchema, Name: name, Schema: schema}
}

// SchemaName returns Name or DefaultSchemaName.
func (f *ResponseFormat) SchemaName() string {
	if f.Name == "" {
		return DefaultSchemaName
	}
	return f.Name
}

// Validate checks the variant is well formed.
func (f *ResponseFormat) Validate() error {
	switch f.Kind {
	case FormatText, FormatJSONObject:
		return nil
	case FormatJSONSchema:
		if len(f.Schema) == 0 {
			return &ValidationError{Field: "responseFormat.schema", Reason: "required for json_schema", Err: ErrInvalidRequest}
		}
		return nil
	default:
		return &ValidationError{Field: "responseFormat.type", Value: f.Kind, Reason: "unknown format", Err: ErrInvalidRequest}
	}
}

// Is reports whether f is non-nil and of kind k.
func (f *ResponseFormat) Is(k FormatKind) bool {
	return f != nil && f.Kind == k
}

func (f *ResponseFormat) clone() *ResponseFormat {
	if f == nil {
		return nil
	}
	c := *f
	c.Schema = cloneSchema(f.Schema)
	if f.Strict != nil {
		c.Strict = BoolPtr(*f.Strict)
	}
	return &c
}

// cloneSchema deep-copies a JSON schema through a JSON round trip, falling back
// to a shallow copy for values JSON cannot represent.
func cloneSchema(s map[string]any) map[string]any {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(s)
	if err == nil {
		var out map[string]any
		if err := json.Unmarshal(b, &out); err == nil {
			return out
		}
	}
	return maps.Clone(s)
}

func (k FormatKind) String() string { return string(k) }

// ParseFormatKind parses the wire name of a format kind.
func ParseFormatKind(s string) (FormatKind, error) {
	switch FormatKind(s) {
	case FormatText, FormatJSONObject, FormatJSONSchema:
		return FormatKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown response format %q", ErrInvalidRequest, s)
	}
}
