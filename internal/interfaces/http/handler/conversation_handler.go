package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/infrastructure/persistence/redis"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
)

// conversationListTTL 列表缓存时长，写操作主动失效
const conversationListTTL = 5 * time.Minute

// ConversationHandler 对话存档端点，列表页走 Redis 缓存
type ConversationHandler struct {
	conversations repository.ConversationRepository
	cache         *redis.Cache
}

// NewConversationHandler 创建对话存档处理器
func NewConversationHandler(conversations repository.ConversationRepository, cache *redis.Cache) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, cache: cache}
}

// List 分页列出当前用户的对话，只含摘要不含消息体
func (h *ConversationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pagination := repository.NewPagination(page, pageSize)

	key := redis.ConversationListKey(userID, pagination.Page, pagination.PageSize)
	bytes, err := h.cache.GetOrLoadSafe(ctx, key, conversationListTTL, func() (interface{}, error) {
		result, err := h.conversations.ListByUser(ctx, userID, pagination)
		if err != nil {
			return nil, err
		}
		summaries := make([]dto.ConversationSummary, 0, len(result.Items))
		for _, conv := range result.Items {
			summaries = append(summaries, dto.ConversationSummary{
				ID:        conv.ID,
				Title:     conv.Title,
				UpdatedAt: conv.UpdatedAt.UTC().Format(time.RFC3339),
			})
		}
		return repository.NewPagedResult(summaries, result.Total, pagination), nil
	})
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondOK(c, json.RawMessage(bytes))
}

// Get 读取一段对话的完整消息
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.loadOwned(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, conv)
}

// Create 存档一段新对话
func (h *ConversationHandler) Create(c *gin.Context) {
	var req dto.SaveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	conv := &entity.Conversation{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Messages: []byte(req.Messages),
	}
	if err := h.conversations.Create(ctx, conv); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	h.invalidateList(c)
	respondCreated(c, conv)
}

// Update 整段覆盖写对话消息
func (h *ConversationHandler) Update(c *gin.Context) {
	var req dto.SaveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	conv, err := h.loadOwned(c)
	if err != nil {
		respondError(c, err)
		return
	}

	conv.Title = req.Title
	conv.Messages = []byte(req.Messages)
	if err := h.conversations.Update(c.Request.Context(), conv); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	h.invalidateList(c)
	respondOK(c, conv)
}

// Delete 删除一段对话
func (h *ConversationHandler) Delete(c *gin.Context) {
	conv, err := h.loadOwned(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.conversations.Delete(c.Request.Context(), conv.ID); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	h.invalidateList(c)
	respondOK(c, gin.H{"id": conv.ID})
}

// loadOwned 按路径参数加载对话并校验归属
func (h *ConversationHandler) loadOwned(c *gin.Context) (*entity.Conversation, error) {
	id := c.Param("id")
	if id == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("missing conversation id")
	}

	conv, err := h.conversations.GetByID(c.Request.Context(), id)
	if err != nil {
		return nil, apperrors.ErrStorageError.WithError(err)
	}
	// 归属不符与不存在同样返回 404，不泄露他人对话的存在性
	if conv == nil || conv.UserID != currentUserID(c) {
		return nil, apperrors.ErrNotFound.WithDetail("conversation not found")
	}
	return conv, nil
}

func (h *ConversationHandler) invalidateList(c *gin.Context) {
	if err := h.cache.InvalidateUserConversations(c.Request.Context(), currentUserID(c)); err != nil {
		logger.Warn(c.Request.Context(), "invalidate conversation cache failed", "error", err)
	}
}
