package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/infrastructure/persistence/postgres"
	"antelope-chat-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查端点
type HealthHandler struct {
	version string
	db      *postgres.Client
	cache   *redis.Client
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(version string, db *postgres.Client, cache *redis.Client) *HealthHandler {
	return &HealthHandler{version: version, db: db, cache: cache}
}

// Health 基础存活信息
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Live 存活探针
func (h *HealthHandler) Live(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Ready 就绪探针，检查数据库和缓存连通性
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	healthy := true

	if err := h.db.HealthCheck(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := h.cache.HealthCheck(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": checks})
}
