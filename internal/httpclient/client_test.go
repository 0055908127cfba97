package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSend_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get(RequestIDHeader))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ping", body["msg"])

		_, _ = w.Write([]byte(`{"msg":"pong"}`))
	}))
	defer srv.Close()

	var out map[string]string
	err := Send(context.Background(), srv.Client(), Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer secret"},
		Body:    map[string]string{"msg": "ping"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "pong", out["msg"])
}

func TestSend_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`overloaded`))
	}))
	defer srv.Close()

	err := Send(context.Background(), srv.Client(), Request{Method: http.MethodGet, URL: srv.URL}, nil)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	assert.Equal(t, "overloaded", string(upstream.Body))
	assert.True(t, upstream.Retryable())
}

func TestSend_TruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", maxErrorBody+10)))
	}))
	defer srv.Close()

	err := Send(context.Background(), srv.Client(), Request{Method: http.MethodGet, URL: srv.URL}, nil)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Len(t, upstream.Body, maxErrorBody)
	assert.False(t, upstream.Retryable())
}

func TestSend_PropagatesRequestAndTrace(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(RequestIDHeader))
		assert.NotEmpty(t, r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx := WithRequestID(context.Background(), "req-42")
	ctx, span := tp.Tracer("test").Start(ctx, "gateway.chat")
	err := Send(ctx, srv.Client(), Request{Method: http.MethodPost, URL: srv.URL}, nil)
	span.End()
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	var status int64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "http.response.status_code" {
			status = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(http.StatusNoContent), status)
}
