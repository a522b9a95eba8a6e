package textgen

// Conventional message roles. Roles are free-form strings; adapters rename
// them where a vendor uses a different vocabulary.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// TextMessage is one turn of a conversation.
type TextMessage struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// UserMessage returns a user turn.
func UserMessage(content string) TextMessage { return TextMessage{Role: RoleUser, Content: content} }

// AssistantMessage returns an assistant turn.
func AssistantMessage(content string) TextMessage {
	return TextMessage{Role: RoleAssistant, Content: content}
}

// SystemMessage returns a system turn.
func SystemMessage(content string) TextMessage {
	return TextMessage{Role: RoleSystem, Content: content}
}

// Usage represents token usage information. Each counter is nil when the
// vendor did not report it.
type Usage struct {
	InputTokens  *int64 `json:"inputTokens,omitempty"`
	OutputTokens *int64 `json:"outputTokens,omitempty"`
	TotalTokens  *int64 `json:"totalTokens,omitempty"`
}

// NewUsage builds a Usage from optional counters, returning nil when all
// three are absent.
func NewUsage(input, output, total *int64) *Usage {
	if input == nil && output == nil && total == nil {
		return nil
	}
	return &Usage{InputTokens: input, OutputTokens: output, TotalTokens: total}
}

// GenerateTextResponse is the vendor-agnostic result of a generation call.
type GenerateTextResponse struct {
	// Response is the primary answer text, "" when the vendor returned none.
	Response string `json:"response"`
	Usage    *Usage `json:"usage,omitempty"`

	FinishReason string `json:"finishReason,omitempty"`
	Model        string `json:"model,omitempty"`
	ID           string `json:"id,omitempty"`
}

// Model describes one model offered by a vendor.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModelsResponse is the result of listing a vendor's models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// Catalog wraps a fixed list of model ids, using the id as the name.
func Catalog(ids ...string) ModelsResponse {
	models := make([]Model, len(ids))
	for i, id := range ids {
		models[i] = Model{ID: id, Name: id}
	}
	return ModelsResponse{Models: models}
}

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int { return &v }

// Int64Ptr returns a pointer to the given int64.
func Int64Ptr(v int64) *int64 { return &v }

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(v float64) *float64 { return &v }

// BoolPtr returns a pointer to the given bool.
func BoolPtr(v bool) *bool { return &v }
