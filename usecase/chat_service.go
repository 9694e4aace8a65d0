package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/message_broker"
	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/utils/log"
)

const inputPreviewLen = 45

// ChatService generates one assistant reply per request, wrapping the model
// call in a trace, a span and a generation. State lives in the request only;
// consecutive calls are fully independent.
type ChatService struct {
	llm    domain.Llm
	tracer domain.Tracer
	broker domain.MessageBroker // nil disables the observer feed
	model  string
	system string
}

func NewChatService(llm domain.Llm, tracer domain.Tracer, broker domain.MessageBroker, model, system string) *ChatService {
	return &ChatService{
		llm:    llm,
		tracer: tracer,
		broker: broker,
		model:  model,
		system: system,
	}
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Response string
	TraceID  string
	Usage    domain.Usage
}

// Answer runs one traced chat turn over the inbound message list. Inbound
// system messages are discarded; the service's own system prompt applies.
func (s *ChatService) Answer(ctx context.Context, sessionID, userID string, messages []domain.ChatMessage) (ChatResult, error) {
	thread := domain.WithoutSystem(messages)
	if len(thread) == 0 {
		return ChatResult{}, fmt.Errorf("no user messages in request")
	}
	last := thread[len(thread)-1]

	ctx = context.WithValue(ctx, log.SessionIDKey, sessionID)
	ctx = context.WithValue(ctx, log.UserIDKey, userID)

	preview := last.Content
	if runes := []rune(preview); len(runes) > inputPreviewLen {
		preview = string(runes[:inputPreviewLen])
	}

	ctx, trace := s.tracer.StartTrace(ctx, domain.TraceOptions{
		Name:      "chat",
		SessionID: sessionID,
		UserID:    userID,
		Input:     preview,
	})
	defer trace.End()

	traceID := s.tracer.TraceID(ctx)

	reply, usage, err := s.generate(ctx, thread, last)
	if err != nil {
		trace.SetError(err)
		log.WithCtx(ctx).Error("chat turn failed", zap.Error(err))
		return ChatResult{}, err
	}

	trace.SetOutput(reply.Content)
	if err := s.tracer.Flush(ctx); err != nil {
		log.WithCtx(ctx).Warn("failed to flush traces", zap.Error(err))
	}

	s.publishTurn(ctx, sessionID, userID, last.Content, reply.Content)

	log.WithCtx(ctx).Info("chat turn completed",
		zap.Int32("total_tokens", usage.TotalTokens))

	return ChatResult{
		Response: reply.Content,
		TraceID:  traceID,
		Usage:    usage,
	}, nil
}

// generate runs the model call inside its own span and generation, closing
// both on every exit path.
func (s *ChatService) generate(ctx context.Context, thread []domain.ChatMessage, last domain.ChatMessage) (domain.ChatMessage, domain.Usage, error) {
	ctx, span := s.tracer.StartSpan(ctx, "generation")
	defer span.End()

	ctx, gen := s.tracer.StartGeneration(ctx, domain.GenerationOptions{
		Name:  "llm-call",
		Model: s.model,
		Input: thread,
	})
	defer gen.End()

	session, err := s.llm.GenerateChat(ctx, s.system, thread[:len(thread)-1])
	if err != nil {
		err = fmt.Errorf("creating chat session: %w", err)
		gen.SetError(err)
		span.SetError(err)
		return domain.ChatMessage{}, domain.Usage{}, err
	}

	reply, usage, err := session.SendMessage(ctx, last)
	if err != nil {
		gen.SetError(err)
		span.SetError(err)
		return domain.ChatMessage{}, domain.Usage{}, err
	}
	if reply.Content == "" {
		err = fmt.Errorf("provider returned an empty completion")
		gen.SetError(err)
		span.SetError(err)
		return domain.ChatMessage{}, domain.Usage{}, err
	}

	gen.SetOutput(reply.Content, usage)
	span.SetOutput(reply.Content)
	return reply, usage, nil
}

func (s *ChatService) publishTurn(ctx context.Context, sessionID, userID, input, response string) {
	if s.broker == nil {
		return
	}

	turn := domain.ChatTurnMessage{
		SessionID: sessionID,
		UserID:    userID,
		Input:     input,
		Response:  response,
		Timestamp: time.Now(),
		Success:   true,
	}
	payload, err := json.Marshal(turn)
	if err != nil {
		log.WithCtx(ctx).Error("failed to marshal chat turn", zap.Error(err))
		return
	}

	if err := s.broker.Publish(ctx, message_broker.ChatTurnTopic, "", payload); err != nil {
		// The observer feed is best effort; the response still goes out.
		log.WithCtx(ctx).Warn("failed to publish chat turn", zap.Error(err))
	}
}
