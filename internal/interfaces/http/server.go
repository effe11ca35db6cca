package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/config"
	"antelope-chat-api/pkg/logger"
)

// Server HTTP 服务器封装
type Server struct {
	httpServer *http.Server
	cfg        *config.HTTPServerConfig
}

// NewServer 创建 HTTP 服务器
func NewServer(cfg *config.Config, engine *gin.Engine) *Server {
	httpCfg := cfg.Server.HTTP
	return &Server{
		cfg: &httpCfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", httpCfg.Host, httpCfg.Port),
			Handler:      engine,
			ReadTimeout:  httpCfg.ReadTimeout,
			WriteTimeout: httpCfg.WriteTimeout,
			IdleTimeout:  httpCfg.IdleTimeout,
		},
	}
}

// Start 启动服务器并阻塞，正常关闭时返回 nil
func (s *Server) Start(ctx context.Context) error {
	logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭，等待在途请求完成
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	logger.Info(ctx, "http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
