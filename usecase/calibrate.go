package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/hq"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/utils/log"
	"github.com/banan-inc/agenthq/utils/markers"
)

const calibrateSystemPrompt = "You are a helpful assistant. Keep the answer as short as possible. " +
	"Answer as list of dictionaries.\n<answer in format>\n" +
	`[{"q": question_1, "a": answer_1}, {"q": question_2, "a": answer_2}, ..., {"q": question_n, "a": answer_n}]` +
	"\n</answer in format>\n"

// CalibratePipeline repairs the calibration document's arithmetic, answers
// its open test questions through the model, and submits the report.
type CalibratePipeline struct {
	hq       *hq.Client
	llm      domain.Llm
	cfg      config.Calibrate
	cacheDir string
}

func NewCalibratePipeline(hqClient *hq.Client, llm domain.Llm, cfg config.Calibrate, cacheDir string) *CalibratePipeline {
	return &CalibratePipeline{hq: hqClient, llm: llm, cfg: cfg, cacheDir: cacheDir}
}

func (p *CalibratePipeline) Run(ctx context.Context) error {
	raw, err := p.hq.FetchCalibration(ctx, p.cfg.HQBaseURL, p.cfg.APIKey, p.cacheDir)
	if err != nil {
		return err
	}

	var doc hq.CalibrationDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing calibration document: %w", err)
	}

	questions := repairTestData(ctx, doc.TestData)

	if len(questions) > 0 {
		answers, err := p.answerQuestions(ctx, questions)
		if err != nil {
			return err
		}
		mergeAnswers(ctx, doc.TestData, answers)
	}

	doc.APIKey = p.cfg.APIKey
	response, err := p.hq.SubmitReport(ctx, p.cfg.ReportEndpoint, hq.Report{
		Task:   "JSON",
		APIKey: p.cfg.APIKey,
		Answer: doc,
	})
	if err != nil {
		return err
	}

	if flag, ok := markers.FindFlag(response); ok {
		log.WithCtx(ctx).Info("found phrase with FLG", zap.String("value", flag))
	} else {
		log.WithCtx(ctx).Warn("no phrase with FLG found in the response")
	}
	return nil
}

// repairTestData fixes wrong arithmetic answers in place and returns the
// open test questions that still need the model.
func repairTestData(ctx context.Context, items []hq.TestItem) []string {
	var questions []string
	for i := range items {
		item := &items[i]
		if item.Question != "" {
			want, err := evalArithmetic(item.Question)
			if err != nil {
				log.WithCtx(ctx).Warn("skipping unevaluable question",
					zap.String("question", item.Question), zap.Error(err))
			} else if item.Answer != want {
				log.WithCtx(ctx).Warn("answer mismatch",
					zap.String("question", item.Question),
					zap.Int("recorded", item.Answer),
					zap.Int("expected", want))
				item.Answer = want
			}
		}
		if item.Test != nil && item.Test.Q != "" {
			questions = append(questions, item.Test.Q)
		}
	}
	return questions
}

type modelAnswer struct {
	Q string `json:"q"`
	A string `json:"a"`
}

func (p *CalibratePipeline) answerQuestions(ctx context.Context, questions []string) ([]modelAnswer, error) {
	prompt, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	reply, err := p.llm.Generate(ctx, string(prompt), domain.GenerateOptions{
		System:          calibrateSystemPrompt,
		Temperature:     1,
		MaxOutputTokens: 100,
		JSONMode:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("querying model: %w", err)
	}
	if reply == "" {
		return nil, fmt.Errorf("model returned an empty answer")
	}

	var answers []modelAnswer
	if err := json.Unmarshal([]byte(reply), &answers); err != nil {
		return nil, fmt.Errorf("parsing model answers: %w", err)
	}
	return answers, nil
}

func mergeAnswers(ctx context.Context, items []hq.TestItem, answers []modelAnswer) {
	for i := range items {
		if items[i].Test == nil {
			continue
		}
		for _, answer := range answers {
			if answer.Q == items[i].Test.Q {
				items[i].Test.A = answer.A
				log.WithCtx(ctx).Info("updated test answer",
					zap.String("question", answer.Q), zap.String("answer", answer.A))
				break
			}
		}
	}
}

// evalArithmetic evaluates "a op b" expressions over integers. Anything
// else is an error; the caller leaves the recorded answer alone.
func evalArithmetic(expr string) (int, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return 0, fmt.Errorf("not a binary arithmetic expression: %q", expr)
	}

	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("left operand of %q: %w", expr, err)
	}
	b, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("right operand of %q: %w", expr, err)
	}

	switch fields[1] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero in %q", expr)
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported operator %q", fields[1])
	}
}
