package kafka

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier_SetGetKeys(t *testing.T) {
	headers := []kafkago.Header{{Key: saleIDHeader, Value: []byte("s1")}}
	c := (*HeaderCarrier)(&headers)

	c.Set("traceparent", "a")
	c.Set("traceparent", "b")

	assert.Equal(t, "s1", c.Get(saleIDHeader))
	assert.Equal(t, "b", c.Get("traceparent"))
	assert.Equal(t, "", c.Get("nada"))
	assert.ElementsMatch(t, []string{saleIDHeader, "traceparent"}, c.Keys())
	assert.Len(t, headers, 2)
}

func TestHeaderCarrier_PropagaTraceContext(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	var headers []kafkago.Header
	prop := propagation.TraceContext{}
	prop.Inject(ctx, (*HeaderCarrier)(&headers))
	require.NotEmpty(t, headers)

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), (*HeaderCarrier)(&headers)))
	assert.Equal(t, traceID, extracted.TraceID())
	assert.Equal(t, spanID, extracted.SpanID())
}
