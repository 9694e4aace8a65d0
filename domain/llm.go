package domain

import "context"

// Llm abstracts the hosted completion provider.
type Llm interface {
	// Generate sends a single prompt and returns the model's reply.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	GenerateChat(ctx context.Context, system string, history []ChatMessage) (ChatSession, error)
}

// GenerateOptions carries the fixed decoding parameters each pipeline
// pins for its one completion call.
type GenerateOptions struct {
	System          string
	Temperature     float32
	MaxOutputTokens int32
	// JSONMode asks the provider for a JSON-typed response body.
	JSONMode bool
}

type ChatSession interface {
	// SendMessage appends the message to the session and returns the
	// model's reply together with its token accounting.
	SendMessage(ctx context.Context, message ChatMessage) (ChatMessage, Usage, error)
	History() ([]ChatMessage, error)
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	SystemRole    Role = "system"
)

// WithoutSystem filters system entries out of a message list. The servers
// never trust an inbound system message; the system prompt is their own.
func WithoutSystem(messages []ChatMessage) []ChatMessage {
	filtered := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == SystemRole {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}
