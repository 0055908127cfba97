package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-registry/internal/catalog"
	"github.com/nulzo/model-registry/internal/config"
	"github.com/nulzo/model-registry/internal/registry"
	"github.com/nulzo/model-registry/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockModel is a registry handle that records Generate calls.
type mockModel struct {
	mock.Mock
	id string
}

func (m *mockModel) ModelID() string { return m.id }

func (m *mockModel) Generate(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ChatResponse), args.Error(1)
}

type testEnv struct {
	handler http.Handler
	models  map[string]*mockModel
}

func setup(t *testing.T, apiKeys ...string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{models: make(map[string]*mockModel)}
	factory := func(id string) registry.Handle {
		m := &mockModel{id: id}
		env.models[id] = m
		return m
	}

	reg, err := registry.New(catalog.Default(), factory)
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "test", APIKeys: apiKeys},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}
	env.handler = New(cfg, zap.NewNop(), reg).Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := setup(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListModels(t *testing.T) {
	env := setup(t)
	w := env.do(t, http.MethodGet, "/v1/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Object string             `json:"object"`
		Data   []api.ProviderInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "list", body.Object)
	require.Len(t, body.Data, 6)
	assert.Equal(t, "openai", body.Data[0].Provider)
	assert.Equal(t, "openRouter", body.Data[5].Provider)
	assert.True(t, body.Data[0].HasCredentials)
}

func TestResolve(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name         string
		query        string
		wantID       string
		wantFallback bool
		wantNoTools  bool
	}{
		{"absent selection", "", "openai/gpt-4.1", false, false},
		{"known selection", "?provider=openai&model=o4-mini", "openai/o4-mini", false, true},
		{"unknown selection", "?provider=nonexistent&model=nonexistent", "openai/gpt-4.1", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/v1/models/resolve"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var res api.Resolution
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, tt.wantID, res.ID)
			assert.Equal(t, tt.wantFallback, res.Fallback)
			assert.Equal(t, tt.wantNoTools, res.ToolCallUnsupported)
			assert.NotEmpty(t, res.SupportedFileMimeTypes)
		})
	}
}

func TestResolve_PartialSelectionIsRejected(t *testing.T) {
	env := setup(t)
	w := env.do(t, http.MethodGet, "/v1/models/resolve?model=gpt-4.1", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "provider")
}

func TestChatCompletion_ForwardsToResolvedModel(t *testing.T) {
	env := setup(t)

	// resolve once so the handle exists and can be primed
	env.do(t, http.MethodGet, "/v1/models/resolve?provider=anthropic&model=sonnet-4.5", nil)
	model := env.models["anthropic/claude-sonnet-4-5"]
	require.NotNil(t, model)

	model.On("Generate", mock.Anything, mock.MatchedBy(func(req *api.ChatRequest) bool {
		return len(req.Tools) == 1 && len(req.Messages[0].Attachments) == 1
	})).Return(&api.ChatResponse{ID: "chatcmpl-1", Object: "chat.completion"}, nil)

	w := env.do(t, http.MethodPost, "/v1/chat/completions", api.ChatRequest{
		Provider: "anthropic",
		Model:    "sonnet-4.5",
		Messages: []api.ChatMessage{{
			Role:        "user",
			Content:     "summarize",
			Attachments: []api.Attachment{{MimeType: "application/pdf", URL: "https://example.com/a.pdf"}},
		}},
		Tools: []api.Tool{{Type: "function", Function: api.FunctionDescription{Name: "search"}}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "anthropic/claude-sonnet-4-5", w.Header().Get("X-Model-ID"))
	assert.Contains(t, w.Body.String(), "chatcmpl-1")
	model.AssertExpectations(t)
}

func TestChatCompletion_DropsToolsForUnsupportedModel(t *testing.T) {
	env := setup(t)

	env.do(t, http.MethodGet, "/v1/models/resolve?provider=openai&model=o4-mini", nil)
	model := env.models["openai/o4-mini"]
	require.NotNil(t, model)

	model.On("Generate", mock.Anything, mock.MatchedBy(func(req *api.ChatRequest) bool {
		return req.Tools == nil && req.ToolChoice == nil
	})).Return(&api.ChatResponse{ID: "chatcmpl-2"}, nil)

	w := env.do(t, http.MethodPost, "/v1/chat/completions", api.ChatRequest{
		Provider:   "openai",
		Model:      "o4-mini",
		Messages:   []api.ChatMessage{{Role: "user", Content: "hi"}},
		Tools:      []api.Tool{{Type: "function", Function: api.FunctionDescription{Name: "search"}}},
		ToolChoice: "auto",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	model.AssertExpectations(t)
}

func TestChatCompletion_RejectsUnsupportedAttachment(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodPost, "/v1/chat/completions", api.ChatRequest{
		Provider: "xai",
		Model:    "grok-3-mini",
		Messages: []api.ChatMessage{{
			Role:        "user",
			Attachments: []api.Attachment{{MimeType: "application/pdf", URL: "https://example.com/a.pdf"}},
		}},
	})

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), "xai/grok-3-mini")

	model := env.models["xai/grok-3-mini"]
	require.NotNil(t, model)
	model.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestChatCompletion_UnknownSelectionUsesDefault(t *testing.T) {
	env := setup(t)

	env.do(t, http.MethodGet, "/v1/models/resolve", nil)
	model := env.models["openai/gpt-4.1"]
	require.NotNil(t, model)
	model.On("Generate", mock.Anything, mock.Anything).Return(&api.ChatResponse{ID: "chatcmpl-3"}, nil)

	w := env.do(t, http.MethodPost, "/v1/chat/completions", api.ChatRequest{
		Provider: "nonexistent",
		Model:    "nonexistent",
		Messages: []api.ChatMessage{{Role: "user", Content: "hi"}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Model-Fallback"))
	assert.Equal(t, "openai/gpt-4.1", w.Header().Get("X-Model-ID"))
}

func TestChatCompletion_UpstreamFailure(t *testing.T) {
	env := setup(t)

	env.do(t, http.MethodGet, "/v1/models/resolve", nil)
	env.models["openai/gpt-4.1"].On("Generate", mock.Anything, mock.Anything).
		Return(nil, api.UpstreamError("gateway unavailable", assert.AnError))

	w := env.do(t, http.MethodPost, "/v1/chat/completions", api.ChatRequest{
		Messages: []api.ChatMessage{{Role: "user", Content: "hi"}},
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestChatCompletion_ValidationError(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodPost, "/v1/chat/completions", map[string]interface{}{
		"messages": []map[string]string{{"role": "robot", "content": "hi"}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "messages[0].role")
}

func TestAPIKeyRequired(t *testing.T) {
	env := setup(t, "sk-client")

	w := env.do(t, http.MethodGet, "/v1/models", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatCompletion_DataURIMediaTypeIsChecked(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodPost, "/v1/chat/completions", api.ChatRequest{
		Provider: "xai",
		Model:    "grok-4-1",
		Messages: []api.ChatMessage{{
			Role: "user",
			// declared as an image, but the payload is a PDF
			Attachments: []api.Attachment{{MimeType: "image/png", URL: "data:application/pdf;base64,JVBERi0="}},
		}},
	})

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), "application/pdf")
}
