// Package entity 定义领域实体
package entity

import "time"

// BookmarkType 收藏对象类型
type BookmarkType string

const (
	BookmarkTypeAccount     BookmarkType = "account"
	BookmarkTypeTransaction BookmarkType = "transaction"
	BookmarkTypeBlock       BookmarkType = "block"
	BookmarkTypeContract    BookmarkType = "contract"
)

// Bookmark 用户收藏的链上对象，(user, type, target) 唯一
type Bookmark struct {
	ID        string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string       `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_key,priority:1"`
	Type      BookmarkType `json:"type" gorm:"type:varchar(16);not null;uniqueIndex:idx_bookmarks_key,priority:2"`
	Target    string       `json:"target" gorm:"type:varchar(128);not null;uniqueIndex:idx_bookmarks_key,priority:3"`
	Note      string       `json:"note" gorm:"type:varchar(512)"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
