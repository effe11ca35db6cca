package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"antelope-chat-api/internal/config"
	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
	"antelope-chat-api/pkg/utils"
)

// AuthHandler 邮箱注册/登录与 Token 管理
type AuthHandler struct {
	users      repository.UserRepository
	jwt        *utils.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(users repository.UserRepository, cfg *config.JWTConfig) *AuthHandler {
	accessTTL := cfg.Expiration
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	refreshTTL := cfg.RefreshExpiration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		users:      users,
		jwt:        utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	if existing != nil {
		respondError(c, apperrors.ErrConflict.WithDetail("email already registered"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, apperrors.ErrInternalError.WithError(err))
		return
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := h.users.Create(ctx, user); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	pair, err := h.jwt.GenerateTokenPair(user.ID, h.accessTTL, h.refreshTTL)
	if err != nil {
		respondError(c, apperrors.ErrInternalError.WithError(err))
		return
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	respondCreated(c, dto.AuthResponse{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login 邮箱密码登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	// 账号不存在与密码错误返回同样的信息，避免账号枚举
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, apperrors.ErrUnauthorized.WithDetail("invalid email or password"))
		return
	}

	pair, err := h.jwt.GenerateTokenPair(user.ID, h.accessTTL, h.refreshTTL)
	if err != nil {
		respondError(c, apperrors.ErrInternalError.WithError(err))
		return
	}

	user.Touch(time.Now())
	if err := h.users.Update(ctx, user); err != nil {
		logger.Warn(ctx, "update last login failed", "user_id", user.ID, "error", err)
	}

	respondOK(c, dto.AuthResponse{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh 用 RefreshToken 换新的 Token 对
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	claims, err := h.jwt.ParseToken(req.RefreshToken)
	if err != nil {
		respondError(c, apperrors.ErrTokenInvalid)
		return
	}
	if claims.Type != "refresh" {
		respondError(c, apperrors.ErrTokenInvalid.WithDetail("not a refresh token"))
		return
	}

	pair, err := h.jwt.GenerateTokenPair(claims.UserID, h.accessTTL, h.refreshTTL)
	if err != nil {
		respondError(c, apperrors.ErrInternalError.WithError(err))
		return
	}
	respondOK(c, dto.AuthResponse{
		UserID:       claims.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Me 返回当前登录用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	if user == nil {
		respondError(c, apperrors.ErrNotFound.WithDetail("user not found"))
		return
	}
	respondOK(c, user)
}
