// Package entity 定义领域实体
package entity

import "time"

// 运行期可调的配置键
const (
	ConfigKeyAppWallet    = "app_wallet_account" // 充值收款账户
	ConfigKeySystemPrompt = "system_prompt"      // 系统提示词覆盖，空则用内置
)

// AppConfig 数据库驻留的键值配置，覆盖文件配置，读取走进程内 TTL 缓存
type AppConfig struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key       string    `json:"key" gorm:"type:varchar(64);not null;uniqueIndex"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (AppConfig) TableName() string {
	return "app_config"
}
