// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"antelope-chat-api/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	Update(ctx context.Context, conversation *entity.Conversation) error
	Delete(ctx context.Context, id string) error
	// ListByUser 按最近更新倒序分页
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Conversation], error)
}

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.Bookmark) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Bookmark], error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Feedback], error)
}
