// Package entity 定义领域实体
package entity

import "time"

// User 应用账号。邮箱登录；链上账户是可选的绑定信息，
// 计费身份始终以请求携带的 (chain_id, account_name) 为准。
type User struct {
	ID           string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string `json:"email" gorm:"type:varchar(256);not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"type:varchar(128);not null"`

	// 绑定的链上账户，可为空
	ChainID     string `json:"chain_id,omitempty" gorm:"type:varchar(64)"`
	AccountName string `json:"account_name,omitempty" gorm:"type:varchar(13)"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Touch 更新最近登录时间
func (u *User) Touch(now time.Time) {
	u.LastLoginAt = &now
}
