//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"antelope-chat-api/internal/application/billing"
	"antelope-chat-api/internal/application/chat"
	"antelope-chat-api/internal/config"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/infrastructure/llm"
	"antelope-chat-api/internal/infrastructure/persistence/postgres"
	"antelope-chat-api/internal/infrastructure/persistence/redis"
	"antelope-chat-api/internal/interfaces/http/handler"
	httpiface "antelope-chat-api/internal/interfaces/http"
)

// infrastructureSet 基础设施：数据库、缓存、LLM 工厂
var infrastructureSet = wire.NewSet(
	providePostgresConfig,
	provideRedisConfig,
	postgres.NewClient,
	redis.NewClient,
	redis.NewCache,
	llm.NewFactory,
)

// repositorySet 仓储实现与接口绑定
var repositorySet = wire.NewSet(
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewUserSettingsRepository,
	postgres.NewAppConfigRepository,
	postgres.NewConversationRepository,
	postgres.NewBookmarkRepository,
	postgres.NewFeedbackRepository,
	postgres.NewDailyUsageRepository,
	postgres.NewCreditBalanceRepository,
	postgres.NewCreditTransactionRepository,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.UserSettingsRepository), new(*postgres.UserSettingsRepository)),
	wire.Bind(new(repository.AppConfigRepository), new(*postgres.AppConfigRepository)),
	wire.Bind(new(repository.ConversationRepository), new(*postgres.ConversationRepository)),
	wire.Bind(new(repository.BookmarkRepository), new(*postgres.BookmarkRepository)),
	wire.Bind(new(repository.FeedbackRepository), new(*postgres.FeedbackRepository)),
	wire.Bind(new(repository.DailyUsageRepository), new(*postgres.DailyUsageRepository)),
	wire.Bind(new(repository.CreditBalanceRepository), new(*postgres.CreditBalanceRepository)),
	wire.Bind(new(repository.CreditTransactionRepository), new(*postgres.CreditTransactionRepository)),
)

// applicationSet 应用服务：配置缓存、计费、对话流水线
var applicationSet = wire.NewSet(
	provideAppConfigCache,
	provideAllowanceChecker,
	billing.NewLedger,
	provideSettlementHyperion,
	provideVerifier,
	chat.NewResolver,
	providePipeline,
)

// interfaceSet HTTP 处理器与路由
var interfaceSet = wire.NewSet(
	provideHealthHandler,
	provideJWTConfig,
	handler.NewAuthHandler,
	handler.NewChatHandler,
	handler.NewCreditsHandler,
	handler.NewSettingsHandler,
	handler.NewConversationHandler,
	handler.NewBookmarkHandler,
	handler.NewFeedbackHandler,
	provideLookupHandler,
	provideHandlers,
	httpiface.NewRouter,
	httpiface.NewServer,
)

// InitializeApp 构建完整应用
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
