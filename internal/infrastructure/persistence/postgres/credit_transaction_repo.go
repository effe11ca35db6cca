// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	apperrors "antelope-chat-api/pkg/errors"
)

type CreditTransactionRepository struct {
	client *Client
}

func NewCreditTransactionRepository(client *Client) *CreditTransactionRepository {
	return &CreditTransactionRepository{client: client}
}

// Create 追加一条流水。tx_hash 唯一约束冲突翻译为 ErrDuplicateTransaction。
func (r *CreditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	ctx, span := tracer.Start(ctx, "postgres.CreditTransactionRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateTransaction
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create credit transaction: %w", err)
	}
	return nil
}

func (r *CreditTransactionRepository) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditTransactionRepository.ExistsByTxHash")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.CreditTransaction{}).
		Where("tx_hash = ?", txHash).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check credit transaction: %w", err)
	}
	return count > 0, nil
}

func (r *CreditTransactionRepository) ListByAccount(ctx context.Context, chainID, accountName string, pagination repository.Pagination) (*repository.PagedResult[*entity.CreditTransaction], error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditTransactionRepository.ListByAccount")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.CreditTransaction{}).
		Where("chain_id = ? AND account_name = ?", chainID, accountName)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count credit transactions: %w", err)
	}

	var txs []*entity.CreditTransaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&txs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list credit transactions: %w", err)
	}

	return repository.NewPagedResult(txs, total, pagination), nil
}
