// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"antelope-chat-api/internal/domain/entity"
)

type AppConfigRepository interface {
	// Get 按键读取，不存在时返回 nil, nil
	Get(ctx context.Context, key string) (*entity.AppConfig, error)
	// Set 创建或覆盖键值
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]*entity.AppConfig, error)
}
