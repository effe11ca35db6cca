package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
)

// FeedbackHandler 回答反馈端点
type FeedbackHandler struct {
	feedback repository.FeedbackRepository
}

// NewFeedbackHandler 创建反馈处理器
func NewFeedbackHandler(feedback repository.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create 提交一条反馈
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	fb := &entity.Feedback{
		UserID:  currentUserID(c),
		Rating:  entity.FeedbackRating(req.Rating),
		Comment: req.Comment,
	}
	if req.ConversationID != "" {
		fb.ConversationID = &req.ConversationID
	}

	if err := h.feedback.Create(c.Request.Context(), fb); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondCreated(c, fb)
}

// List 分页列出当前用户的反馈
func (h *FeedbackHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.feedback.ListByUser(c.Request.Context(), currentUserID(c), repository.NewPagination(page, pageSize))
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondOK(c, result)
}
