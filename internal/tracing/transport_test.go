package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestTransport_RecordsClientSpanAndInjectsContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	client := &http.Client{Transport: NewTransport(nil, tp.Tracer("test"))}
	resp, err := client.Post(srv.URL+"/api/v1/producers", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.NotEmpty(t, traceparent, "trace context should be propagated")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "HTTP POST", spans[0].Name())
	require.Equal(t, trace.SpanKindClient, spans[0].SpanKind())

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "/api/v1/producers", attrs[AttrURLPath])
	require.Equal(t, int64(http.StatusAccepted), attrs[AttrHTTPStatusCode])
}

func TestNewTransport_NilTracerReturnsBase(t *testing.T) {
	base := &http.Transport{}
	require.Same(t, base, NewTransport(base, nil))
}
