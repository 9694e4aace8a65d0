package trace

import (
	"context"

	"github.com/banan-inc/agenthq/domain"
)

// NewNoop returns a Tracer that records nothing. Used by tests.
func NewNoop() domain.Tracer { return noopTracer{} }

type noopTracer struct{}

func (noopTracer) StartTrace(ctx context.Context, _ domain.TraceOptions) (context.Context, domain.Span) {
	return ctx, noopSpan{}
}

func (noopTracer) StartSpan(ctx context.Context, _ string) (context.Context, domain.Span) {
	return ctx, noopSpan{}
}

func (noopTracer) StartGeneration(ctx context.Context, _ domain.GenerationOptions) (context.Context, domain.Generation) {
	return ctx, noopGeneration{}
}

func (noopTracer) TraceID(context.Context) string { return "" }
func (noopTracer) Flush(context.Context) error    { return nil }
func (noopTracer) Shutdown(context.Context) error { return nil }

type noopSpan struct{}

func (noopSpan) SetOutput(string) {}
func (noopSpan) SetError(error)   {}
func (noopSpan) End()             {}

type noopGeneration struct{}

func (noopGeneration) SetOutput(string, domain.Usage) {}
func (noopGeneration) SetError(error)                 {}
func (noopGeneration) End()                           {}
