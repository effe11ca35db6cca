package handler

import (
	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
)

// SettingsHandler 用户 LLM 偏好设置端点
type SettingsHandler struct {
	settings repository.UserSettingsRepository
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(settings repository.UserSettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get 读取设置，无记录时回内置模式默认值
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	if settings == nil {
		respondOK(c, dto.SettingsResponse{UseBuiltin: true})
		return
	}
	respondOK(c, dto.SettingsResponse{
		UseBuiltin: settings.UseBuiltin,
		Provider:   settings.Provider,
		Model:      settings.Model,
		HasAPIKey:  settings.APIKey != "",
	})
}

// Update 创建或覆盖设置。api_key 为空时保留已存的 Key。
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	if !req.UseBuiltin && (req.Provider == "" || req.Model == "") {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("provider and model are required when use_builtin is false"))
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	existing, err := h.settings.GetByUserID(ctx, userID)
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	apiKey := req.APIKey
	if apiKey == "" && existing != nil {
		apiKey = existing.APIKey
	}
	if !req.UseBuiltin && apiKey == "" {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("api_key is required when use_builtin is false"))
		return
	}

	settings := &entity.UserSettings{
		UserID:     userID,
		UseBuiltin: req.UseBuiltin,
		Provider:   req.Provider,
		Model:      req.Model,
		APIKey:     apiKey,
	}
	if err := h.settings.Upsert(ctx, settings); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	respondOK(c, dto.SettingsResponse{
		UseBuiltin: settings.UseBuiltin,
		Provider:   settings.Provider,
		Model:      settings.Model,
		HasAPIKey:  settings.APIKey != "",
	})
}
