// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"antelope-chat-api/internal/domain/entity"
)

// DailyUsageRepository 每日用量行的读写
type DailyUsageRepository interface {
	// Get 读取某日用量行，不存在时返回 nil, nil
	Get(ctx context.Context, chainID, accountName, date string) (*entity.DailyUsage, error)
	// Increment 累加当日请求数与 Token 数，行不存在时创建
	Increment(ctx context.Context, chainID, accountName, date string, inputTokens, outputTokens int64) error
	// ListRecent 按日期倒序列出最近 days 天的用量行
	ListRecent(ctx context.Context, chainID, accountName string, days int) ([]*entity.DailyUsage, error)
}

// CreditBalanceRepository 余额行的读写
type CreditBalanceRepository interface {
	// Get 读取余额行，不存在时返回 nil, nil
	Get(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error)
	// GetForUpdate 事务内加行锁读取，不存在时返回 nil, nil
	GetForUpdate(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error)
	Create(ctx context.Context, balance *entity.CreditBalance) error
	Update(ctx context.Context, balance *entity.CreditBalance) error
}

// CreditTransactionRepository 信用流水的追加与查询
type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CreditTransaction) error
	// ExistsByTxHash 判断某链上交易是否已入账
	ExistsByTxHash(ctx context.Context, txHash string) (bool, error)
	ListByAccount(ctx context.Context, chainID, accountName string, pagination Pagination) (*PagedResult[*entity.CreditTransaction], error)
}
