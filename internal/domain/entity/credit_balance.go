// Package entity 定义领域实体
package entity

import "time"

// CreditBalance 每个 (链, 账户) 一行的余额缓存。
// 余额永不为负；它是交易流水 delta 之和的物化结果，必须可由流水重放推导。
type CreditBalance struct {
	ID          string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChainID     string `json:"chain_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_credit_balance_key,priority:1"`
	AccountName string `json:"account_name" gorm:"type:varchar(13);not null;uniqueIndex:idx_credit_balance_key,priority:2"`
	// BalanceTokens 当前 Token 单位余额，始终 >= 0
	BalanceTokens int64 `json:"balance_tokens" gorm:"not null;default:0"`
	// TotalDepositedTLOS 累计充值 TLOS，单调递增
	TotalDepositedTLOS float64   `json:"total_deposited_tlos" gorm:"not null;default:0"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CreditBalance) TableName() string {
	return "credit_balances"
}
