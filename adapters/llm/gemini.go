package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/banan-inc/agenthq/domain"
)

const defaultModel = "gemini-2.0-flash-001"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, model string) (domain.Llm, error) {
	client, err := genai.NewClient(
		ctx,
		&genai.ClientConfig{
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	if opts.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.System}},
		}
	}
	if opts.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}

func (g *GeminiClient) GenerateChat(ctx context.Context, system string, history []domain.ChatMessage) (domain.ChatSession, error) {
	geminiHistory := make([]*genai.Content, len(history))
	for i, msg := range history {
		role := genai.RoleModel
		if msg.Role == domain.UserRole {
			role = genai.RoleUser
		}
		geminiHistory[i] = &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				{Text: msg.Content},
			},
		}
	}

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
		}
	}

	chat, err := g.client.Chats.Create(ctx, g.model, config, geminiHistory)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	return &GeminiChatSession{chat: chat}, nil
}

type GeminiChatSession struct {
	chat *genai.Chat
}

// SendMessage implements domain.ChatSession.
func (g *GeminiChatSession) SendMessage(ctx context.Context, message domain.ChatMessage) (
	domain.ChatMessage,
	domain.Usage,
	error,
) {
	resp, err := g.chat.SendMessage(ctx, genai.Part{Text: message.Content})
	if err != nil {
		return domain.ChatMessage{}, domain.Usage{}, fmt.Errorf("send message: %w", err)
	}

	var usage domain.Usage
	if resp.UsageMetadata != nil {
		usage = domain.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return domain.ChatMessage{
		Role:    domain.AssistantRole,
		Content: resp.Text(),
	}, usage, nil
}

func (g *GeminiChatSession) History() ([]domain.ChatMessage, error) {
	resp := g.chat.History(false)
	history := make([]domain.ChatMessage, len(resp))
	for i, content := range resp {
		var text string
		for _, p := range content.Parts {
			text += p.Text
		}
		role := domain.AssistantRole
		if content.Role == genai.RoleUser {
			role = domain.UserRole
		}
		history[i] = domain.ChatMessage{
			Role:    role,
			Content: text,
		}
	}
	return history, nil
}
