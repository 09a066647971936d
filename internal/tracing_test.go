package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

const (
	incomingTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	incomingSpanID  = "00f067aa0ba902b7"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prevProvider, prevPropagator := otel.GetTracerProvider(), otel.GetTextMapPropagator()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func spanNamed(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func TestTracingContinuesIncomingTrace(t *testing.T) {
	sr := recordSpans(t)
	s := newTestServer(t, &recordingMailer{})

	req := httptest.NewRequest("GET", "/supplier", nil)
	req.Header.Set("traceparent", "00-"+incomingTraceID+"-"+incomingSpanID+"-01")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := sr.Ended()
	server := spanNamed(spans, "GET /supplier")
	require.NotNil(t, server, "server span missing")
	assert.Equal(t, trace.SpanKindServer, server.SpanKind())
	assert.Equal(t, incomingTraceID, server.SpanContext().TraceID().String())
	assert.Equal(t, incomingSpanID, server.Parent().SpanID().String())
	assert.True(t, server.Parent().IsRemote())

	list := spanNamed(spans, "inventory.ListSuppliers")
	require.NotNil(t, list, "service span missing")
	assert.Equal(t, incomingTraceID, list.SpanContext().TraceID().String())
	assert.Equal(t, server.SpanContext().SpanID(), list.Parent().SpanID())
}

func TestTracingNamesSpanAfterRoutePattern(t *testing.T) {
	sr := recordSpans(t)
	s := newTestServer(t, &recordingMailer{})

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest("GET", "/supplier/77", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	server := spanNamed(sr.Ended(), "GET /supplier/{id}")
	require.NotNil(t, server, "server span missing")
	assert.False(t, server.Parent().IsValid())

	var route string
	for _, kv := range server.Attributes() {
		if kv.Key == "http.route" {
			route = kv.Value.AsString()
		}
	}
	assert.Equal(t, "/supplier/{id}", route)
}
