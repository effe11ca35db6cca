// Package entity 定义领域实体
package entity

import "time"

// UserSettings 每个用户一行的 LLM 偏好设置。
// UseBuiltin 为 true 时走服务端配置的提供商并计费；
// 为 false 时使用用户自带的 Key，跳过额度检查和扣费。
type UserSettings struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`

	UseBuiltin bool   `json:"use_builtin" gorm:"not null;default:true"`
	Provider   string `json:"provider" gorm:"type:varchar(32)"`
	Model      string `json:"model" gorm:"type:varchar(64)"`
	// APIKey 用户自带的提供商 Key，仅 BYOK 模式使用，响应中永不回显
	APIKey string `json:"-" gorm:"type:varchar(256)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
