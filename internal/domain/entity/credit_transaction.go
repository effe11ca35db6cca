// Package entity 定义领域实体
package entity

import "time"

// CreditTransactionType 流水类型
type CreditTransactionType string

const (
	CreditTransactionTypeDeposit CreditTransactionType = "deposit"
	CreditTransactionTypeUsage   CreditTransactionType = "usage"
)

// CreditTransaction 只追加的信用流水。写入后不可变，是余额的事实来源。
// TxHash 上的唯一约束是同一笔链上充值只入账一次的唯一防线。
type CreditTransaction struct {
	ID          string                `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChainID     string                `json:"chain_id" gorm:"type:varchar(64);index:idx_credit_tx_key;not null"`
	AccountName string                `json:"account_name" gorm:"type:varchar(13);index:idx_credit_tx_key;not null"`
	Type        CreditTransactionType `json:"type" gorm:"type:varchar(16);not null"`

	// 充值字段
	TLOSAmount *float64 `json:"tlos_amount,omitempty"`
	// TxHash 链上交易 ID；usage 行为 NULL，deposit 行唯一
	TxHash *string `json:"tx_hash,omitempty" gorm:"type:varchar(64);uniqueIndex"`

	// 用量字段
	InputTokens  *int64  `json:"input_tokens,omitempty"`
	OutputTokens *int64  `json:"output_tokens,omitempty"`
	TotalTokens  *int64  `json:"total_tokens,omitempty"`
	Model        *string `json:"model,omitempty" gorm:"type:varchar(64)"`

	// TokenUnitsDelta 本笔流水的带符号余额变动
	TokenUnitsDelta int64 `json:"token_units_delta" gorm:"not null"`
	// BalanceAfter 流水落账后的余额，用于审计重放
	BalanceAfter int64 `json:"balance_after" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
