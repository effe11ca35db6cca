// Package entity 定义领域实体
package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation 用户的一段对话，消息整体以 JSONB 存储。
// 客户端每轮把完整消息数组回传，服务端整段覆盖写。
type Conversation struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;index:idx_conversations_user"`
	Title  string `json:"title" gorm:"type:varchar(256);not null"`
	// Messages 对话消息数组的 JSON 序列化
	Messages  datatypes.JSON `json:"messages" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime;index:idx_conversations_user"`
}

func (Conversation) TableName() string {
	return "conversations"
}
