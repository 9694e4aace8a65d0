// Package trace adapts the OpenTelemetry SDK to the domain.Tracer port.
// Spans are exported over OTLP/HTTP to the observability backend configured
// in the environment, authenticated with the project key pair.
package trace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/domain"
)

type OtelTracer struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

func NewOtel(ctx context.Context, cfg config.Trace, serviceName string) (*OtelTracer, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
		otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Basic " + auth,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otlp exporter: %w", err)
	}

	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &OtelTracer{
		provider: provider,
		tracer:   provider.Tracer("agenthq"),
	}, nil
}

func (t *OtelTracer) StartTrace(ctx context.Context, opts domain.TraceOptions) (context.Context, domain.Span) {
	ctx, span := t.tracer.Start(ctx, opts.Name, oteltrace.WithAttributes(
		attribute.String("session.id", opts.SessionID),
		attribute.String("user.id", opts.UserID),
		attribute.String("input", opts.Input),
	))
	return ctx, otelSpan{span: span}
}

func (t *OtelTracer) StartSpan(ctx context.Context, name string) (context.Context, domain.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, otelSpan{span: span}
}

func (t *OtelTracer) StartGeneration(ctx context.Context, opts domain.GenerationOptions) (context.Context, domain.Generation) {
	input, _ := json.Marshal(opts.Input)
	ctx, span := t.tracer.Start(ctx, opts.Name, oteltrace.WithAttributes(
		attribute.String("gen_ai.request.model", opts.Model),
		attribute.String("gen_ai.input.messages", string(input)),
	))
	return ctx, otelGeneration{span: span}
}

func (t *OtelTracer) TraceID(ctx context.Context) string {
	sc := oteltrace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func (t *OtelTracer) Flush(ctx context.Context) error {
	return t.provider.ForceFlush(ctx)
}

func (t *OtelTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

type otelSpan struct {
	span oteltrace.Span
}

func (s otelSpan) SetOutput(output string) {
	s.span.SetAttributes(attribute.String("output", output))
}

func (s otelSpan) SetError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s otelSpan) End() { s.span.End() }

type otelGeneration struct {
	span oteltrace.Span
}

func (g otelGeneration) SetOutput(output string, usage domain.Usage) {
	g.span.SetAttributes(
		attribute.String("gen_ai.output.messages", output),
		attribute.Int("gen_ai.usage.input_tokens", int(usage.PromptTokens)),
		attribute.Int("gen_ai.usage.output_tokens", int(usage.CompletionTokens)),
		attribute.Int("gen_ai.usage.total_tokens", int(usage.TotalTokens)),
	)
}

func (g otelGeneration) SetError(err error) {
	g.span.RecordError(err)
	g.span.SetStatus(codes.Error, err.Error())
}

func (g otelGeneration) End() { g.span.End() }
