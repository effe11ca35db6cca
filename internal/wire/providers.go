// Package wire 组装应用依赖
package wire

import (
	"antelope-chat-api/internal/application/appconfig"
	"antelope-chat-api/internal/application/billing"
	"antelope-chat-api/internal/application/chat"
	"antelope-chat-api/internal/config"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/infrastructure/antelope"
	"antelope-chat-api/internal/infrastructure/persistence/postgres"
	"antelope-chat-api/internal/infrastructure/persistence/redis"
	"antelope-chat-api/internal/interfaces/http/handler"
	httpiface "antelope-chat-api/internal/interfaces/http"
)

// App 汇总应用的顶层组件
type App struct {
	Config *config.Config
	Server *httpiface.Server
	DB     *postgres.Client
	Redis  *redis.Client
}

func providePostgresConfig(cfg *config.Config) *config.PostgresConfig {
	return &cfg.Database.Postgres
}

func provideRedisConfig(cfg *config.Config) *config.RedisConfig {
	return &cfg.Cache.Redis
}

func provideJWTConfig(cfg *config.Config) *config.JWTConfig {
	return &cfg.Security.JWT
}

func provideAppConfigCache(cfg *config.Config, repo repository.AppConfigRepository) *appconfig.Cache {
	return appconfig.NewCache(repo, cfg.Billing.ConfigCacheTTL)
}

func provideAllowanceChecker(
	cfg *config.Config,
	usage repository.DailyUsageRepository,
	balances repository.CreditBalanceRepository,
) *billing.AllowanceChecker {
	return billing.NewAllowanceChecker(usage, balances, cfg.Billing.FreeRequestsPerDay)
}

// provideSettlementHyperion 结算链（Telos 主网）的 Hyperion 客户端，充值核销专用
func provideSettlementHyperion(cfg *config.Config) billing.TransactionFetcher {
	return antelope.NewHyperionClient(cfg.Billing.SettlementHyperion, cfg.Chain.HTTPTimeout)
}

func provideVerifier(
	cfg *config.Config,
	hyperion billing.TransactionFetcher,
	ledger *billing.Ledger,
	appCfg *appconfig.Cache,
) *billing.Verifier {
	return billing.NewVerifier(hyperion, ledger, appCfg, cfg.Billing.SettlementSymbol, cfg.Billing.SettlementContract)
}

func providePipeline(
	cfg *config.Config,
	checker *billing.AllowanceChecker,
	ledger *billing.Ledger,
	appCfg *appconfig.Cache,
) *chat.Pipeline {
	return chat.NewPipeline(checker, ledger, appCfg, cfg.Chain.HTTPTimeout)
}

func provideHealthHandler(cfg *config.Config, db *postgres.Client, cache *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, db, cache)
}

func provideLookupHandler(cfg *config.Config) *handler.LookupHandler {
	return handler.NewLookupHandler(cfg.Chain.HTTPTimeout)
}

func provideHandlers(
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	chatHandler *handler.ChatHandler,
	credits *handler.CreditsHandler,
	settings *handler.SettingsHandler,
	conversation *handler.ConversationHandler,
	bookmark *handler.BookmarkHandler,
	feedback *handler.FeedbackHandler,
	lookup *handler.LookupHandler,
) *httpiface.Handlers {
	return &httpiface.Handlers{
		Health:       health,
		Auth:         auth,
		Chat:         chatHandler,
		Credits:      credits,
		Settings:     settings,
		Conversation: conversation,
		Bookmark:     bookmark,
		Feedback:     feedback,
		Lookup:       lookup,
	}
}
