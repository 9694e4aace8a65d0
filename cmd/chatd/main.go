package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	httpadapter "github.com/banan-inc/agenthq/adapters/http"
	"github.com/banan-inc/agenthq/adapters/llm"
	"github.com/banan-inc/agenthq/adapters/trace"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/usecase"
	"github.com/banan-inc/agenthq/utils/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	gotenv.Load()
	if err := log.Init("logs_chatd.txt"); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	serverCfg := config.LoadServer("3004")
	traceCfg, err := config.LoadTrace()
	if err != nil {
		log.WithCtx(ctx).Fatal("invalid configuration", zap.Error(err))
	}

	tracer, err := trace.NewOtel(ctx, traceCfg, "agenthq-chatd")
	if err != nil {
		log.WithCtx(ctx).Fatal("creating tracer", zap.Error(err))
	}

	gemini, err := llm.NewGeminiClient(ctx, serverCfg.Model)
	if err != nil {
		log.WithCtx(ctx).Fatal("creating model client", zap.Error(err))
	}

	chatService := usecase.NewChatService(gemini, tracer, nil, serverCfg.Model, serverCfg.SystemPrompt)
	handler := httpadapter.NewChatHandler(chatService, httpadapter.Options{})

	e := echo.New()
	e.HTTPErrorHandler = httpadapter.ErrorHandler
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.POST("/api/chat", handler.ChatCompletion)
	e.GET("/api/health", handler.HealthCheck)

	go func() {
		if err := e.Start(":" + serverCfg.Port); err != nil && err != http.ErrServerClosed {
			log.WithCtx(ctx).Fatal("server stopped", zap.Error(err))
		}
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.WithCtx(ctx).Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithCtx(ctx).Error("server shutdown failed", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.WithCtx(ctx).Error("tracer shutdown failed", zap.Error(err))
	}
}
