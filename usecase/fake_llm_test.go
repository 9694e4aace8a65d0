package usecase

import (
	"context"

	"github.com/banan-inc/agenthq/domain"
)

// fakeLlm scripts the provider: one canned reply, full call recording.
type fakeLlm struct {
	reply string
	err   error

	generateCalls int
	lastPrompt    string
	lastOpts      domain.GenerateOptions

	chatCalls   int
	lastSystem  string
	lastHistory []domain.ChatMessage
	lastMessage domain.ChatMessage
}

func (f *fakeLlm) Generate(_ context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	f.generateCalls++
	f.lastPrompt = prompt
	f.lastOpts = opts
	return f.reply, f.err
}

func (f *fakeLlm) GenerateChat(_ context.Context, system string, history []domain.ChatMessage) (domain.ChatSession, error) {
	f.chatCalls++
	f.lastSystem = system
	f.lastHistory = history
	if f.err != nil {
		return nil, f.err
	}
	return &fakeSession{llm: f}, nil
}

type fakeSession struct {
	llm *fakeLlm
}

func (s *fakeSession) SendMessage(_ context.Context, message domain.ChatMessage) (domain.ChatMessage, domain.Usage, error) {
	s.llm.lastMessage = message
	return domain.ChatMessage{Role: domain.AssistantRole, Content: s.llm.reply},
		domain.Usage{PromptTokens: 10, CompletionTokens: 25, TotalTokens: 35},
		nil
}

func (s *fakeSession) History() ([]domain.ChatMessage, error) {
	return s.llm.lastHistory, nil
}
