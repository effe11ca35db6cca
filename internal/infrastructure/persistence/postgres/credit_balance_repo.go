// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"antelope-chat-api/internal/domain/entity"
)

type CreditBalanceRepository struct {
	client *Client
}

func NewCreditBalanceRepository(client *Client) *CreditBalanceRepository {
	return &CreditBalanceRepository{client: client}
}

func (r *CreditBalanceRepository) Get(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditBalanceRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var balance entity.CreditBalance
	if err := db.First(&balance, "chain_id = ? AND account_name = ?", chainID, accountName).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get credit balance: %w", err)
	}
	return &balance, nil
}

func (r *CreditBalanceRepository) GetForUpdate(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditBalanceRepository.GetForUpdate")
	defer span.End()

	db := getDB(ctx, r.client.db).Clauses(clause.Locking{Strength: "UPDATE"})
	var balance entity.CreditBalance
	if err := db.First(&balance, "chain_id = ? AND account_name = ?", chainID, accountName).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get credit balance for update: %w", err)
	}
	return &balance, nil
}

func (r *CreditBalanceRepository) Create(ctx context.Context, balance *entity.CreditBalance) error {
	ctx, span := tracer.Start(ctx, "postgres.CreditBalanceRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(balance).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create credit balance: %w", err)
	}
	return nil
}

func (r *CreditBalanceRepository) Update(ctx context.Context, balance *entity.CreditBalance) error {
	ctx, span := tracer.Start(ctx, "postgres.CreditBalanceRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(balance).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update credit balance: %w", err)
	}
	return nil
}
