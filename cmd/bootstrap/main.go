// bootstrap 执行数据库迁移并写入初始配置
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"antelope-chat-api/internal/config"
	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/infrastructure/persistence/postgres"
	"antelope-chat-api/pkg/logger"
)

func main() {
	walletAccount := flag.String("wallet", "", "app wallet account for deposits (optional)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx := context.Background()

	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "connect postgres failed", err)
	}
	defer client.Close()

	logger.Info(ctx, "running migrations")
	err = client.DB().WithContext(ctx).AutoMigrate(
		&entity.User{},
		&entity.UserSettings{},
		&entity.AppConfig{},
		&entity.Conversation{},
		&entity.Bookmark{},
		&entity.Feedback{},
		&entity.DailyUsage{},
		&entity.CreditBalance{},
		&entity.CreditTransaction{},
	)
	if err != nil {
		logger.Fatal(ctx, "migrate failed", err)
	}

	configRepo := postgres.NewAppConfigRepository(client)
	if *walletAccount != "" {
		if err := configRepo.Set(ctx, entity.ConfigKeyAppWallet, *walletAccount); err != nil {
			logger.Fatal(ctx, "seed app wallet failed", err)
		}
		logger.Info(ctx, "app wallet configured", "account", *walletAccount)
	}

	logger.Info(ctx, "bootstrap complete")
}
