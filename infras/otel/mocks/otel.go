// Package mocks provides an Otel whose spans are recorded nowhere, for tests
// that exercise traced code without a collector.
package mocks

import (
	"context"

	"docemania/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

type otelImpl struct {
	provider noop.TracerProvider
}

func NewOtel() otel.Otel {
	return &otelImpl{provider: noop.NewTracerProvider()}
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, otel.NewScope(span)
}

func (o *otelImpl) Shutdown(context.Context) error {
	return nil
}
