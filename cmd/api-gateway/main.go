// api-gateway 是对话与计费服务的 HTTP 入口
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"antelope-chat-api/internal/config"
	einoobs "antelope-chat-api/internal/observability/eino"
	"antelope-chat-api/internal/wire"
	"antelope-chat-api/pkg/logger"
	"antelope-chat-api/pkg/tracer"
)

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx := context.Background()
	logger.Info(ctx, "starting",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
	)

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "init tracer failed", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn(ctx, "shutdown tracer failed", "error", err)
		}
	}()

	// Eino 模型/工具调用的全局观测回调
	einoobs.Init()

	app, cleanup, err := wire.InitializeApp(cfg)
	if err != nil {
		logger.Fatal(ctx, "initialize app failed", err)
	}
	defer cleanup()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.Start(sigCtx)
	}()

	select {
	case <-sigCtx.Done():
		logger.Info(ctx, "shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Fatal(ctx, "http server failed", err)
		}
		return
	}

	if err := app.Server.Shutdown(context.Background()); err != nil {
		logger.Error(ctx, "graceful shutdown failed", err)
	}
	logger.Info(ctx, "stopped")
}
