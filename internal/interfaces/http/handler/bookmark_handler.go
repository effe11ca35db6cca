package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
)

// BookmarkHandler 链上对象收藏端点
type BookmarkHandler struct {
	bookmarks repository.BookmarkRepository
}

// NewBookmarkHandler 创建收藏处理器
func NewBookmarkHandler(bookmarks repository.BookmarkRepository) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// List 分页列出当前用户的收藏
func (h *BookmarkHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.bookmarks.ListByUser(c.Request.Context(), currentUserID(c), repository.NewPagination(page, pageSize))
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondOK(c, result)
}

// Create 收藏一个链上对象，(user, type, target) 重复时报冲突
func (h *BookmarkHandler) Create(c *gin.Context) {
	var req dto.CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	bookmark := &entity.Bookmark{
		UserID: currentUserID(c),
		Type:   entity.BookmarkType(req.Type),
		Target: strings.TrimSpace(req.Target),
		Note:   req.Note,
	}
	if err := h.bookmarks.Create(c.Request.Context(), bookmark); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperrors.ErrConflict.WithDetail("bookmark already exists"))
			return
		}
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondCreated(c, bookmark)
}

// Delete 删除一个收藏
func (h *BookmarkHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("missing bookmark id"))
		return
	}

	if err := h.bookmarks.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondOK(c, gin.H{"id": id})
}
