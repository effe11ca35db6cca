// Package entity 定义领域实体
package entity

import "time"

// DailyUsage 每个 (链, 账户) 每个 UTC 日历日一行的用量计数。
// 首次请求时惰性创建，只增不删，用于免费额度判定和用量统计。
type DailyUsage struct {
	ID                string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChainID           string    `json:"chain_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_daily_usage_key,priority:1"`
	AccountName       string    `json:"account_name" gorm:"type:varchar(13);not null;uniqueIndex:idx_daily_usage_key,priority:2"`
	Date              string    `json:"date" gorm:"type:date;not null;uniqueIndex:idx_daily_usage_key,priority:3"`
	RequestCount      int       `json:"request_count" gorm:"not null;default:0"`
	TotalInputTokens  int64     `json:"total_input_tokens" gorm:"not null;default:0"`
	TotalOutputTokens int64     `json:"total_output_tokens" gorm:"not null;default:0"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (DailyUsage) TableName() string {
	return "daily_usage"
}

// UsageDate 将时刻转换为 UTC 日历日字符串（用量行的日期键）
func UsageDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
