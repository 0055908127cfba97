package api

// ChatRequest is the body of POST /v1/chat/completions.
//
// Provider and Model form the user-facing selection. Leaving both empty
// selects the default model.
type ChatRequest struct {
	Provider string `json:"provider,omitempty" binding:"required_with=Model"`
	Model    string `json:"model,omitempty" binding:"required_with=Provider"`

	// message array is required, dive in and deep validate
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	MaxTokens   int     `json:"max_tokens,omitempty" binding:"gte=0"`
	Temperature float64 `json:"temperature,omitempty" binding:"gte=0,lte=2"`
	TopP        float64 `json:"top_p,omitempty" binding:"gte=0,lte=1"`

	// Tool calling
	Tools      []Tool      `json:"tools,omitempty" binding:"dive"`
	ToolChoice interface{} `json:"tool_choice,omitempty"` // "none", "auto", or object

	User string `json:"user,omitempty"`
}

type ChatMessage struct {
	Role        string       `json:"role" binding:"required,oneof=user assistant system tool"`
	Content     string       `json:"content"`
	Name        string       `json:"name,omitempty"`
	ToolCallID  string       `json:"tool_call_id,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" binding:"dive"`
}

// Attachment is a file part referenced by URL (http(s) or data: URI).
type Attachment struct {
	MimeType string `json:"mime_type" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Name     string `json:"name,omitempty"`
}

type Tool struct {
	Type     string              `json:"type" binding:"required,eq=function"`
	Function FunctionDescription `json:"function"`
}

type FunctionDescription struct {
	Description string                 `json:"description,omitempty"`
	Name        string                 `json:"name" binding:"required"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema object
}

// ResolveRequest is the query of GET /v1/models/resolve.
type ResolveRequest struct {
	Provider string `form:"provider" binding:"required_with=Model"`
	Model    string `form:"model" binding:"required_with=Provider"`
}

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
	ToolRole  Role = "tool"
)
