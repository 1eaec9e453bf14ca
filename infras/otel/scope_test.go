package otel_test

import (
	"context"
	"errors"
	"testing"

	"docemania/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "booking.Create")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_TraceIfError(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
	})
	assert.Equal(t, codes.Unset, span.Status().Code)

	span = record(t, func(scope otel.Scope) {
		scope.TraceIfError(errors.New("event date in the past"))
	})
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "event date in the past", span.Status().Description)
}

func TestScope_Attributes(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.SetAttribute("booking.status", "pending")
		scope.SetAttributes(map[string]any{
			"testimonial.rating": 5,
			"gallery.count":      int64(12),
			"booking.confirmed":  false,
			"roles":              []string{"admin"},
			"other":              struct{ A int }{A: 1},
		})
		scope.AddEvent("cache.miss")
	})

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, "pending", attrs["booking.status"].AsString())
	assert.Equal(t, int64(5), attrs["testimonial.rating"].AsInt64())
	assert.Equal(t, int64(12), attrs["gallery.count"].AsInt64())
	assert.False(t, attrs["booking.confirmed"].AsBool())
	assert.Equal(t, []string{"admin"}, attrs["roles"].AsStringSlice())
	assert.Equal(t, "{1}", attrs["other"].AsString())

	require.Len(t, span.Events(), 1)
	assert.Equal(t, "cache.miss", span.Events()[0].Name)
}
