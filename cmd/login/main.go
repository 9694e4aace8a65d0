package main

import (
	"context"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/llm"
	"github.com/banan-inc/agenthq/adapters/portal"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/usecase"
	"github.com/banan-inc/agenthq/utils/log"
)

func main() {
	gotenv.Load()
	if err := log.Init("logs_login.txt"); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.WithValue(context.Background(), log.TaskKey, "login")

	cfg, err := config.LoadLogin()
	if err != nil {
		log.WithCtx(ctx).Fatal("invalid configuration", zap.Error(err))
	}

	gemini, err := llm.NewGeminiClient(ctx, os.Getenv("CHAT_MODEL"))
	if err != nil {
		log.WithCtx(ctx).Fatal("creating model client", zap.Error(err))
	}

	pipeline := usecase.NewLoginPipeline(portal.NewClient(cfg.LoginURL), gemini, cfg)
	if err := pipeline.Run(ctx); err != nil {
		log.WithCtx(ctx).Error("login pipeline failed", zap.Error(err))
		os.Exit(1)
	}
}
