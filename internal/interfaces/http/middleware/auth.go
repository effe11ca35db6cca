// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"antelope-chat-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
}

// UserIDKey Gin Context 中存放登录用户 ID 的键
const UserIDKey = "user_id"

// OptionalAuth 可选认证中间件。
// 带合法 Token 的请求注入 user_id；无 Token 或 Token 非法时按匿名放行，
// 是否允许匿名由各业务端点自行决定。
func OptionalAuth(cfg AuthConfig) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil || claims.Type != "access" {
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireAuth 强制认证中间件，挂在需要登录的路由组上。
// 依赖 OptionalAuth 先行解析 Token。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserIDKey) == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// bearerToken 从 Authorization Header 提取 Bearer Token
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     "1002",
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
