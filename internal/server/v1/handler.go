package v1

import (
	"context"

	"github.com/nulzo/model-registry/internal/catalog"
	"github.com/nulzo/model-registry/internal/registry"
	"github.com/nulzo/model-registry/pkg/api"
)

// ModelRegistry is the part of *registry.Registry the HTTP layer uses.
type ModelRegistry interface {
	ListCatalog() []api.ProviderInfo
	ResolveWithFallback(sel *catalog.Selection) (registry.Handle, bool)
	IsToolCallUnsupported(h registry.Handle) bool
	IsImageInputUnsupported(h registry.Handle) bool
	SupportedFileMimeTypes(h registry.Handle) []string
	SupportsFileMimeType(h registry.Handle, mimeType string) bool
}

// Generator is implemented by handles that can run a chat completion.
type Generator interface {
	Generate(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
}

func selection(provider, model string) *catalog.Selection {
	if provider == "" && model == "" {
		return nil
	}
	return &catalog.Selection{Provider: provider, Model: model}
}
