package gateway

import (
	"context"
	"strings"

	"github.com/nulzo/model-registry/pkg/api"
)

// Model is a lightweight, stateless handle for one gateway identifier.
// It is safe for concurrent use.
type Model struct {
	id     string
	client *Client
}

func (m *Model) ModelID() string {
	return m.id
}

// Generate sends a non-streaming chat completion for this model.
func (m *Model) Generate(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	return m.client.chat(ctx, m.buildRequest(req))
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []upstreamMsg `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	Tools       []api.Tool    `json:"tools,omitempty"`
	ToolChoice  interface{}   `json:"tool_choice,omitempty"`
	User        string        `json:"user,omitempty"`
	Stream      bool          `json:"stream"`
}

type upstreamMsg struct {
	Role       string      `json:"role"`
	Content    interface{} `json:"content"` // string or []contentPart
	Name       string      `json:"name,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
	File     *filePart `json:"file,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type filePart struct {
	FileData  string `json:"file_data"`
	Filename  string `json:"filename,omitempty"`
	MediaType string `json:"media_type"`
}

func (m *Model) buildRequest(req *api.ChatRequest) *chatCompletionRequest {
	out := &chatCompletionRequest{
		Model:       m.id,
		Messages:    make([]upstreamMsg, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Tools:       req.Tools,
		User:        req.User,
	}
	if len(req.Tools) > 0 {
		out.ToolChoice = req.ToolChoice
	}

	for _, msg := range req.Messages {
		um := upstreamMsg{
			Role:       msg.Role,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}

		if len(msg.Attachments) == 0 {
			um.Content = msg.Content
		} else {
			parts := make([]contentPart, 0, len(msg.Attachments)+1)
			if msg.Content != "" {
				parts = append(parts, contentPart{Type: "text", Text: msg.Content})
			}
			for _, a := range msg.Attachments {
				parts = append(parts, attachmentPart(a))
			}
			um.Content = parts
		}

		out.Messages = append(out.Messages, um)
	}

	return out
}

func attachmentPart(a api.Attachment) contentPart {
	mimeType := strings.ToLower(strings.TrimSpace(a.MimeType))
	if strings.HasPrefix(mimeType, "image/") {
		return contentPart{Type: "image_url", ImageURL: &imageURL{URL: a.URL}}
	}
	return contentPart{
		Type: "file",
		File: &filePart{FileData: a.URL, Filename: a.Name, MediaType: mimeType},
	}
}
