package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID   = errors.New("duplicate model id")
	ErrDuplicateName = errors.New("duplicate provider/model name")
	ErrEmptyField    = errors.New("empty catalog field")
)

// Model is a single entry of the static catalog.
type Model struct {
	// ID is the gateway identifier, conventionally "provider/model".
	ID string
	// Name is the display name users select.
	Name                  string
	ToolCallUnsupported   bool
	ImageInputUnsupported bool
	// FileMimeTypes is nil when the model has no configured list.
	FileMimeTypes []string
}

// Provider groups the models offered under one provider name.
type Provider struct {
	Name   string
	Models []Model
}

// Catalog is the ordered, immutable list of providers.
type Catalog []Provider

// Selection is the user-facing (provider, model name) pair.
type Selection struct {
	Provider string `json:"provider" form:"provider"`
	Model    string `json:"model" form:"model"`
}

// Key returns the "provider/name" lookup key.
func (s Selection) Key() string {
	return Key(s.Provider, s.Model)
}

func Key(provider, name string) string {
	return provider + "/" + name
}

// Validate checks that identifiers and provider/name pairs are unique
// across the whole catalog.
func (c Catalog) Validate() error {
	ids := make(map[string]struct{})
	names := make(map[string]struct{})

	for _, p := range c {
		if p.Name == "" {
			return fmt.Errorf("%w: provider name", ErrEmptyField)
		}
		for _, m := range p.Models {
			if m.ID == "" || m.Name == "" {
				return fmt.Errorf("%w: model in provider %s", ErrEmptyField, p.Name)
			}
			if _, exists := ids[m.ID]; exists {
				return fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
			}
			ids[m.ID] = struct{}{}

			key := Key(p.Name, m.Name)
			if _, exists := names[key]; exists {
				return fmt.Errorf("%w: %s", ErrDuplicateName, key)
			}
			names[key] = struct{}{}
		}
	}
	return nil
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		{
			Name: "openai",
			Models: []Model{
				{ID: "openai/gpt-4.1", Name: "gpt-4.1", FileMimeTypes: OpenAIFileMimeTypes},
				{ID: "openai/gpt-4.1-mini", Name: "gpt-4.1-mini", FileMimeTypes: OpenAIFileMimeTypes},
				{ID: "openai/o4-mini", Name: "o4-mini", ToolCallUnsupported: true},
				{ID: "openai/o3", Name: "o3"},
				{ID: "openai/gpt-5.1-chat-latest", Name: "gpt-5.1-chat"},
				{ID: "openai/gpt-5.1", Name: "gpt-5.1"},
				{ID: "openai/gpt-5.1-codex", Name: "gpt-5.1-codex"},
				{ID: "openai/gpt-5.1-codex-mini", Name: "gpt-5.1-codex-mini"},
			},
		},
		{
			Name: "google",
			Models: []Model{
				{ID: "google/gemini-2.5-flash-lite", Name: "gemini-2.5-flash-lite", FileMimeTypes: GeminiFileMimeTypes},
				{ID: "google/gemini-2.5-flash", Name: "gemini-2.5-flash", FileMimeTypes: GeminiFileMimeTypes},
				{ID: "google/gemini-3-pro-preview", Name: "gemini-3-pro"},
				{ID: "google/gemini-2.5-pro", Name: "gemini-2.5-pro", FileMimeTypes: GeminiFileMimeTypes},
			},
		},
		{
			Name: "anthropic",
			Models: []Model{
				{ID: "anthropic/claude-sonnet-4-5", Name: "sonnet-4.5", FileMimeTypes: AnthropicFileMimeTypes},
				{ID: "anthropic/claude-haiku-4-5", Name: "haiku-4.5"},
				{ID: "anthropic/claude-opus-4-5", Name: "opus-4.5", FileMimeTypes: AnthropicFileMimeTypes},
			},
		},
		{
			Name: "xai",
			Models: []Model{
				{ID: "xai/grok-4-1-fast-non-reasoning", Name: "grok-4-1-fast", FileMimeTypes: XAIFileMimeTypes},
				{ID: "xai/grok-4-1", Name: "grok-4-1", FileMimeTypes: XAIFileMimeTypes},
				{ID: "xai/grok-3-mini", Name: "grok-3-mini", FileMimeTypes: XAIFileMimeTypes},
			},
		},
		{
			Name: "groq",
			Models: []Model{
				{ID: "groq/moonshotai/kimi-k2-instruct", Name: "kimi-k2-instruct"},
				{ID: "groq/meta-llama/llama-4-scout-17b-16e-instruct", Name: "llama-4-scout-17b"},
				{ID: "groq/openai/gpt-oss-20b", Name: "gpt-oss-20b"},
				{ID: "groq/openai/gpt-oss-120b", Name: "gpt-oss-120b"},
				{ID: "groq/qwen/qwen3-32b", Name: "qwen3-32b"},
			},
		},
		{
			Name: "openRouter",
			Models: []Model{
				{ID: "openrouter/openai/gpt-oss-20b:free", Name: "gpt-oss-20b:free", ToolCallUnsupported: true},
				{ID: "openrouter/qwen/qwen3-8b:free", Name: "qwen3-8b:free", ToolCallUnsupported: true},
				{ID: "openrouter/qwen/qwen3-14b:free", Name: "qwen3-14b:free", ToolCallUnsupported: true},
				{ID: "openrouter/qwen/qwen3-coder:free", Name: "qwen3-coder:free"},
				{ID: "openrouter/deepseek/deepseek-r1-0528:free", Name: "deepseek-r1:free", ToolCallUnsupported: true},
				{ID: "openrouter/deepseek/deepseek-chat-v3-0324:free", Name: "deepseek-v3:free"},
				{
					ID:                  "openrouter/google/gemini-2.0-flash-exp:free",
					Name:                "gemini-2.0-flash-exp:free",
					ToolCallUnsupported: true,
					FileMimeTypes:       GeminiFileMimeTypes,
				},
			},
		},
	}
}
