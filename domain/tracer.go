package domain

import "context"

// Tracer is the port for the observability backend. The scripts only ever
// open and close traces, spans and generations; the handles stay opaque.
// Every Start must be paired with an End on all exit paths.
type Tracer interface {
	StartTrace(ctx context.Context, opts TraceOptions) (context.Context, Span)
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	StartGeneration(ctx context.Context, opts GenerationOptions) (context.Context, Generation)
	// TraceID returns the identifier of the trace the context belongs to,
	// or "" when the context carries none.
	TraceID(ctx context.Context) string
	// Flush forces buffered trace events out to the backend.
	Flush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type TraceOptions struct {
	Name      string
	SessionID string
	UserID    string
	Input     string
}

type GenerationOptions struct {
	Name  string
	Model string
	Input []ChatMessage
}

type Span interface {
	SetOutput(output string)
	SetError(err error)
	End()
}

type Generation interface {
	SetOutput(output string, usage Usage)
	SetError(err error)
	End()
}

// Usage is the provider-reported token accounting for one generation.
type Usage struct {
	PromptTokens     int32
	CompletionTokens int32
	TotalTokens      int32
}
