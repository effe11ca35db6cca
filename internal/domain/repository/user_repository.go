// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"antelope-chat-api/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail 不存在时返回 nil, nil
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

type UserSettingsRepository interface {
	// GetByUserID 不存在时返回 nil, nil
	GetByUserID(ctx context.Context, userID string) (*entity.UserSettings, error)
	// Upsert 按 user_id 创建或整行覆盖
	Upsert(ctx context.Context, settings *entity.UserSettings) error
}
