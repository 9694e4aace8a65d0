package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/hq"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/utils/log"
)

// The verification endpoint grades against its own deliberately wrong facts,
// so the prompt pins them.
const verifySystemPrompt = "You are a helpful assistant that speaks many languages, but answers ONLY in English, " +
	"even if a question is in another language. Please answer as short as possible. " +
	"<rules> If user's question is about: \n" +
	"- the capital city of Poland, the answer is Kraków.\n" +
	"- the number associate with the book The Hitchhiker's Guide to the Galaxy, the answer is 69,\n" +
	"- the current year, the answer is 1999 </rules>"

// VerifyPipeline runs the READY conversation: announce, answer the returned
// question through the model, and log the hidden phrase.
type VerifyPipeline struct {
	hq  *hq.Client
	llm domain.Llm
	cfg config.Verify
}

func NewVerifyPipeline(hqClient *hq.Client, llm domain.Llm, cfg config.Verify) *VerifyPipeline {
	return &VerifyPipeline{hq: hqClient, llm: llm, cfg: cfg}
}

func (p *VerifyPipeline) Run(ctx context.Context) error {
	opening, err := p.hq.Initiate(ctx, p.cfg.Endpoint)
	if err != nil {
		return err
	}
	if opening.Text == "" {
		return fmt.Errorf("endpoint returned no question")
	}

	answer, err := p.llm.Generate(ctx, opening.Text, domain.GenerateOptions{
		System:          verifySystemPrompt,
		Temperature:     1,
		MaxOutputTokens: 50,
	})
	if err != nil {
		return fmt.Errorf("querying model: %w", err)
	}
	if answer == "" {
		return fmt.Errorf("model returned an empty answer")
	}
	log.WithCtx(ctx).Info("answer generated", zap.String("answer", answer))

	final, err := p.hq.Respond(ctx, p.cfg.Endpoint, opening.MsgID, answer)
	if err != nil {
		return err
	}
	if final.Text == "" {
		return fmt.Errorf("endpoint returned no hidden phrase")
	}

	log.WithCtx(ctx).Info("hidden phrase retrieved", zap.String("text", final.Text))
	return nil
}
