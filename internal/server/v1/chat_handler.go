package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-registry/internal/server/validator"
	"github.com/nulzo/model-registry/pkg/api"
	"go.uber.org/zap"
)

type ChatHandler struct {
	registry ModelRegistry
	logger   *zap.Logger
}

func NewChatHandler(registry ModelRegistry, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		registry: registry,
		logger:   logger,
	}
}

// CreateCompletion resolves the selected model, applies its capability
// limits and forwards the request to the gateway.
//
// POST /v1/chat/completions
func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	handle, fallback := h.registry.ResolveWithFallback(selection(req.Provider, req.Model))
	modelID := handle.ModelID()

	for i := range req.Messages {
		for j := range req.Messages[i].Attachments {
			a := &req.Messages[i].Attachments[j]
			mimeType, err := attachmentMimeType(*a)
			if err != nil {
				_ = c.Error(api.BadRequestError(err.Error(), api.WithExtension("message_index", i)))
				return
			}

			if strings.HasPrefix(mimeType, "image/") && h.registry.IsImageInputUnsupported(handle) {
				_ = c.Error(api.UnsupportedMediaError(
					fmt.Sprintf("model %s does not accept image input", modelID),
					api.WithExtension("model", modelID),
					api.WithExtension("message_index", i),
				))
				return
			}

			if !h.registry.SupportsFileMimeType(handle, mimeType) {
				_ = c.Error(api.UnsupportedMediaError(
					fmt.Sprintf("model %s does not accept %s attachments", modelID, mimeType),
					api.WithExtension("model", modelID),
					api.WithExtension("message_index", i),
					api.WithExtension("supported_file_mime_types", h.registry.SupportedFileMimeTypes(handle)),
				))
				return
			}

			// the gateway forwards the type that was checked
			a.MimeType = mimeType
		}
	}

	if len(req.Tools) > 0 && h.registry.IsToolCallUnsupported(handle) {
		h.logger.Debug("dropping tools for model without tool call support",
			zap.String("model", modelID),
			zap.Int("tools", len(req.Tools)),
		)
		req.Tools = nil
		req.ToolChoice = nil
	}

	gen, ok := handle.(Generator)
	if !ok {
		_ = c.Error(api.InternalError("model handle cannot generate", fmt.Errorf("handle %T for %s", handle, modelID)))
		return
	}

	resp, err := gen.Generate(c.Request.Context(), &req)
	if err != nil {
		var problem *api.Problem
		if errors.As(err, &problem) {
			_ = c.Error(problem)
			return
		}
		_ = c.Error(api.UpstreamError("Failed to process chat request", err))
		return
	}

	if fallback {
		c.Header("X-Model-Fallback", "true")
	}
	c.Header("X-Model-ID", modelID)
	c.JSON(http.StatusOK, resp)
}
