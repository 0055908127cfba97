package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-registry/internal/server/validator"
	"github.com/nulzo/model-registry/pkg/api"
)

type ModelHandler struct {
	registry ModelRegistry
}

func NewModelHandler(registry ModelRegistry) *ModelHandler {
	return &ModelHandler{registry: registry}
}

// ListModels returns the catalog grouped by provider, in declaration order.
//
// GET /v1/models
func (h *ModelHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.registry.ListCatalog(),
	})
}

// Resolve reports which backend model a selection maps to and its
// capabilities. Unknown selections resolve to the default model.
//
// GET /v1/models/resolve?provider=openai&model=gpt-4.1
func (h *ModelHandler) Resolve(c *gin.Context) {
	var req api.ResolveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	handle, fallback := h.registry.ResolveWithFallback(selection(req.Provider, req.Model))

	c.JSON(http.StatusOK, api.Resolution{
		ID:                     handle.ModelID(),
		Fallback:               fallback,
		ToolCallUnsupported:    h.registry.IsToolCallUnsupported(handle),
		SupportedFileMimeTypes: h.registry.SupportedFileMimeTypes(handle),
	})
}
