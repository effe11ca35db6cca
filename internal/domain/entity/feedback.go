// Package entity 定义领域实体
package entity

import "time"

// FeedbackRating 对单条回答的评价
type FeedbackRating string

const (
	FeedbackRatingUp   FeedbackRating = "up"
	FeedbackRatingDown FeedbackRating = "down"
)

// Feedback 用户对某条助手回答的反馈
type Feedback struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         string         `json:"user_id" gorm:"type:uuid;not null;index"`
	ConversationID *string        `json:"conversation_id,omitempty" gorm:"type:uuid;index"`
	Rating         FeedbackRating `json:"rating" gorm:"type:varchar(8);not null"`
	Comment        string         `json:"comment" gorm:"type:varchar(2048)"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
