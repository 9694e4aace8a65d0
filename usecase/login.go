package usecase

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/portal"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/utils/log"
	"github.com/banan-inc/agenthq/utils/markers"
)

const loginSystemPrompt = "You are a historian. Answer with only the year."

// LoginPipeline answers the portal's dynamic question with the model and
// logs whatever the secret page reveals. One pass, no retries.
type LoginPipeline struct {
	portal *portal.Client
	llm    domain.Llm
	cfg    config.Login
}

func NewLoginPipeline(portalClient *portal.Client, llm domain.Llm, cfg config.Login) *LoginPipeline {
	return &LoginPipeline{portal: portalClient, llm: llm, cfg: cfg}
}

func (p *LoginPipeline) Run(ctx context.Context) error {
	question, err := p.portal.FetchQuestion(ctx)
	if err != nil {
		return fmt.Errorf("fetching question: %w", err)
	}
	if question == "" {
		return fmt.Errorf("login page contained no question")
	}
	log.WithCtx(ctx).Info("question fetched", zap.String("question", question))

	answer, err := p.llm.Generate(ctx, question, domain.GenerateOptions{
		System:          loginSystemPrompt,
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

	result, err := p.portal.Login(ctx, p.cfg.Username, p.cfg.Password, answer)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	log.WithCtx(ctx).Info("login successful", zap.String("secret_page_url", result.FinalURL))

	if path, err := saveSecretPage(result.Body); err != nil {
		log.WithCtx(ctx).Warn("failed to save secret page", zap.Error(err))
	} else {
		log.WithCtx(ctx).Info("secret page saved", zap.String("path", path))
	}

	spans := markers.ExtractBraced(result.Body)
	if len(spans) == 0 {
		log.WithCtx(ctx).Warn("no marker spans found on secret page")
		return nil
	}
	for _, span := range spans {
		log.WithCtx(ctx).Info("found content", zap.String("content", span))
	}
	return nil
}

func saveSecretPage(body string) (string, error) {
	file, err := os.CreateTemp("", "secret-*.html")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(body); err != nil {
		return "", err
	}
	return file.Name(), nil
}
