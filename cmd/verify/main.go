package main

import (
	"context"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/hasher"
	"github.com/banan-inc/agenthq/adapters/hq"
	"github.com/banan-inc/agenthq/adapters/llm"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/usecase"
	"github.com/banan-inc/agenthq/utils/log"
)

func main() {
	gotenv.Load()
	if err := log.Init("logs_verify.txt"); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.WithValue(context.Background(), log.TaskKey, "verify")

	cfg, err := config.LoadVerify()
	if err != nil {
		log.WithCtx(ctx).Fatal("invalid configuration", zap.Error(err))
	}

	gemini, err := llm.NewGeminiClient(ctx, os.Getenv("CHAT_MODEL"))
	if err != nil {
		log.WithCtx(ctx).Fatal("creating model client", zap.Error(err))
	}

	pipeline := usecase.NewVerifyPipeline(hq.NewClient(hasher.New()), gemini, cfg)
	if err := pipeline.Run(ctx); err != nil {
		log.WithCtx(ctx).Error("verify pipeline failed", zap.Error(err))
		os.Exit(1)
	}
}
