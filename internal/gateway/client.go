package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nulzo/model-registry/internal/config"
	"github.com/nulzo/model-registry/internal/httpclient"
	"github.com/nulzo/model-registry/internal/registry"
	"github.com/nulzo/model-registry/pkg/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseURL = "https://ai-gateway.vercel.sh/v1"

var tracer = otel.Tracer("github.com/nulzo/model-registry/internal/gateway")

// Client talks to the upstream AI gateway. One client is shared by every
// model handle.
type Client struct {
	config config.GatewayConfig
	client httpclient.HTTPClient
}

func NewClient(cfg config.GatewayConfig, client httpclient.HTTPClient) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		config: cfg,
		client: client,
	}
}

// Model returns a handle for the gateway identifier. It performs no I/O.
func (c *Client) Model(id string) *Model {
	return &Model{id: id, client: c}
}

// Factory adapts Model to the registry's handle factory.
func (c *Client) Factory() registry.Factory {
	return func(id string) registry.Handle {
		return c.Model(id)
	}
}

// upstreamErrorResponse mirrors the standard OpenAI error shape
type upstreamErrorResponse struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

func (c *Client) chat(ctx context.Context, body *chatCompletionRequest) (*api.ChatResponse, error) {
	ctx, span := tracer.Start(ctx, "gateway.chat")
	defer span.End()
	span.SetAttributes(attribute.String("gateway.model", body.Model))

	headers := map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	}
	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.config.BaseURL, "/"))

	var resp api.ChatResponse
	err := httpclient.Send(ctx, c.client, httpclient.Request{
		Method:  http.MethodPost,
		URL:     url,
		Headers: headers,
		Body:    body,
	}, &resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway request failed")
		return nil, c.handleUpstreamError(err)
	}

	if resp.Error != nil {
		return nil, api.UpstreamError("Upstream API Error: "+resp.Error.Message, resp.Error)
	}

	return &resp, nil
}

func (c *Client) handleUpstreamError(err error) error {
	var upstreamErr *httpclient.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return api.UpstreamError("gateway request failed", err)
	}

	var apiErr upstreamErrorResponse
	if jsonErr := json.Unmarshal(upstreamErr.Body, &apiErr); jsonErr != nil || apiErr.Error.Message == "" {
		return api.NewError(
			http.StatusBadGateway,
			"Upstream Error",
			string(upstreamErr.Body),
			api.WithExtension("upstream_status", upstreamErr.StatusCode),
			api.WithExtension("retryable", upstreamErr.Retryable()),
			api.WithLog(err),
		)
	}

	return api.NewError(
		http.StatusBadGateway,
		"Upstream Provider Error",
		apiErr.Error.Message,
		api.WithExtension("upstream_status", upstreamErr.StatusCode),
		api.WithExtension("upstream_code", apiErr.Error.Code),
		api.WithExtension("upstream_type", apiErr.Error.Type),
		api.WithExtension("retryable", upstreamErr.Retryable()),
		api.WithLog(err),
	)
}
