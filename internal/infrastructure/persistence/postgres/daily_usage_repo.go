// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"antelope-chat-api/internal/domain/entity"
)

type DailyUsageRepository struct {
	client *Client
}

func NewDailyUsageRepository(client *Client) *DailyUsageRepository {
	return &DailyUsageRepository{client: client}
}

func (r *DailyUsageRepository) Get(ctx context.Context, chainID, accountName, date string) (*entity.DailyUsage, error) {
	ctx, span := tracer.Start(ctx, "postgres.DailyUsageRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var usage entity.DailyUsage
	if err := db.First(&usage, "chain_id = ? AND account_name = ? AND date = ?", chainID, accountName, date).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get daily usage: %w", err)
	}
	return &usage, nil
}

// Increment 原子累加当日计数，行不存在时先插入。
// 走 ON CONFLICT 而不是先读后写，并发首次请求只会留下一行。
func (r *DailyUsageRepository) Increment(ctx context.Context, chainID, accountName, date string, inputTokens, outputTokens int64) error {
	ctx, span := tracer.Start(ctx, "postgres.DailyUsageRepository.Increment")
	defer span.End()

	db := getDB(ctx, r.client.db)
	usage := entity.DailyUsage{
		ChainID:           chainID,
		AccountName:       accountName,
		Date:              date,
		RequestCount:      1,
		TotalInputTokens:  inputTokens,
		TotalOutputTokens: outputTokens,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chain_id"}, {Name: "account_name"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":       gorm.Expr("daily_usage.request_count + 1"),
			"total_input_tokens":  gorm.Expr("daily_usage.total_input_tokens + ?", inputTokens),
			"total_output_tokens": gorm.Expr("daily_usage.total_output_tokens + ?", outputTokens),
			"updated_at":          gorm.Expr("NOW()"),
		}),
	}).Create(&usage).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to increment daily usage: %w", err)
	}
	return nil
}

func (r *DailyUsageRepository) ListRecent(ctx context.Context, chainID, accountName string, days int) ([]*entity.DailyUsage, error) {
	ctx, span := tracer.Start(ctx, "postgres.DailyUsageRepository.ListRecent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var rows []*entity.DailyUsage
	if err := db.Where("chain_id = ? AND account_name = ?", chainID, accountName).
		Order("date DESC").
		Limit(days).
		Find(&rows).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list daily usage: %w", err)
	}
	return rows, nil
}
