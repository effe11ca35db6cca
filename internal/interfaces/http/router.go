// Package http 组装 HTTP 路由与服务器
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"antelope-chat-api/internal/config"
	"antelope-chat-api/internal/infrastructure/persistence/redis"
	"antelope-chat-api/internal/interfaces/http/handler"
	"antelope-chat-api/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Chat         *handler.ChatHandler
	Credits      *handler.CreditsHandler
	Settings     *handler.SettingsHandler
	Conversation *handler.ConversationHandler
	Bookmark     *handler.BookmarkHandler
	Feedback     *handler.FeedbackHandler
	Lookup       *handler.LookupHandler
}

// NewRouter 构建 Gin 引擎并挂载全部路由
func NewRouter(cfg *config.Config, handlers *Handlers, redisClient *redis.Client) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	if cfg.Observability.Tracing.Enabled {
		engine.Use(middleware.Trace(cfg.App.Name))
		engine.Use(middleware.TraceContext())
	}
	engine.Use(middleware.Metrics())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: cfg.Security.CORS.AllowedHeaders,
	}))
	engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             cfg.Security.RateLimit.Burst,
	}, redis.NewRateLimiter(redisClient)))
	engine.Use(middleware.OptionalAuth(middleware.AuthConfig{
		Secret: cfg.Security.JWT.Secret,
		Issuer: cfg.Security.JWT.Issuer,
	}))

	// 探针与指标
	engine.GET("/health", handlers.Health.Health)
	engine.GET("/live", handlers.Health.Live)
	engine.GET("/ready", handlers.Health.Ready)
	if cfg.Observability.Metrics.Enabled {
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	v1 := engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Auth.Register)
			auth.POST("/login", handlers.Auth.Login)
			auth.POST("/refresh", handlers.Auth.Refresh)
			auth.GET("/me", middleware.RequireAuth(), handlers.Auth.Me)
		}

		// 对话：匿名可用（需自带 Key），登录用户按存档设置决议
		v1.POST("/chat", handlers.Chat.Chat)

		// 计费：身份是链上账户，不要求应用登录
		credits := v1.Group("/credits")
		{
			credits.GET("", handlers.Credits.Summary)
			credits.GET("/transactions", handlers.Credits.Transactions)
			credits.POST("/verify", handlers.Credits.Verify)
		}

		v1.GET("/lookup", handlers.Lookup.Lookup)

		authed := v1.Group("", middleware.RequireAuth())
		{
			authed.GET("/settings", handlers.Settings.Get)
			authed.PUT("/settings", handlers.Settings.Update)

			authed.GET("/conversations", handlers.Conversation.List)
			authed.POST("/conversations", handlers.Conversation.Create)
			authed.GET("/conversations/:id", handlers.Conversation.Get)
			authed.PUT("/conversations/:id", handlers.Conversation.Update)
			authed.DELETE("/conversations/:id", handlers.Conversation.Delete)

			authed.GET("/bookmarks", handlers.Bookmark.List)
			authed.POST("/bookmarks", handlers.Bookmark.Create)
			authed.DELETE("/bookmarks/:id", handlers.Bookmark.Delete)

			authed.GET("/feedback", handlers.Feedback.List)
			authed.POST("/feedback", handlers.Feedback.Create)
		}
	}

	return engine
}
