// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"antelope-chat-api/internal/domain/entity"
)

type AppConfigRepository struct {
	client *Client
}

func NewAppConfigRepository(client *Client) *AppConfigRepository {
	return &AppConfigRepository{client: client}
}

func (r *AppConfigRepository) Get(ctx context.Context, key string) (*entity.AppConfig, error) {
	ctx, span := tracer.Start(ctx, "postgres.AppConfigRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var cfg entity.AppConfig
	if err := db.First(&cfg, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get app config: %w", err)
	}
	return &cfg, nil
}

func (r *AppConfigRepository) Set(ctx context.Context, key, value string) error {
	ctx, span := tracer.Start(ctx, "postgres.AppConfigRepository.Set")
	defer span.End()

	db := getDB(ctx, r.client.db)
	cfg := entity.AppConfig{Key: key, Value: value}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set app config: %w", err)
	}
	return nil
}

func (r *AppConfigRepository) List(ctx context.Context) ([]*entity.AppConfig, error) {
	ctx, span := tracer.Start(ctx, "postgres.AppConfigRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var rows []*entity.AppConfig
	if err := db.Order("key ASC").Find(&rows).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list app config: %w", err)
	}
	return rows, nil
}
