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
	"github.com/banan-inc/agenthq/adapters/message_broker"
	"github.com/banan-inc/agenthq/adapters/trace"
	"github.com/banan-inc/agenthq/adapters/websocket"
	"github.com/banan-inc/agenthq/config"
	"github.com/banan-inc/agenthq/usecase"
	"github.com/banan-inc/agenthq/utils/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	gotenv.Load()
	if err := log.Init("logs_assistantd.txt"); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	serverCfg := config.LoadServer("3000")
	traceCfg, err := config.LoadTrace()
	if err != nil {
		log.WithCtx(ctx).Fatal("invalid configuration", zap.Error(err))
	}
	authCfg, err := config.LoadAuth()
	if err != nil {
		log.WithCtx(ctx).Fatal("invalid configuration", zap.Error(err))
	}

	tracer, err := trace.NewOtel(ctx, traceCfg, "agenthq-assistantd")
	if err != nil {
		log.WithCtx(ctx).Fatal("creating tracer", zap.Error(err))
	}

	gemini, err := llm.NewGeminiClient(ctx, serverCfg.Model)
	if err != nil {
		log.WithCtx(ctx).Fatal("creating model client", zap.Error(err))
	}

	broker := message_broker.NewChannelMessageBroker()
	wsServer := websocket.NewServer(broker)

	chatService := usecase.NewChatService(gemini, tracer, broker, serverCfg.Model, serverCfg.SystemPrompt)
	handler := httpadapter.NewChatHandler(chatService, httpadapter.Options{
		JWTSecret:     []byte(authCfg.JWTSecret),
		APIKey:        authCfg.APIKey,
		APISecret:     authCfg.APISecret,
		ObserverCount: wsServer.GetHub().ClientCount,
	})

	e := echo.New()
	e.HTTPErrorHandler = httpadapter.ErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	e.Use(middleware.BodyLimit("1M"))

	api := e.Group("/api")
	api.GET("/health", handler.HealthCheck)
	api.POST("/auth/token", handler.GenerateJWT)
	api.POST("/chat", handler.Chat)

	// Observers watch completed turns over a JWT-guarded websocket.
	ws := e.Group("/ws")
	ws.Use(handler.JWTMiddleware)
	ws.GET("", wsServer.Handler)

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
	if err := broker.Close(); err != nil {
		log.WithCtx(ctx).Error("broker close failed", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.WithCtx(ctx).Error("tracer shutdown failed", zap.Error(err))
	}
}
