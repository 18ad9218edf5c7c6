package db

import "time"

// Comment 定义了评论模型
// 评论通过用户名而非外键关联用户。
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	ArticleID uint   `gorm:"index;not null"`
	Username  string `gorm:"not null"`
	Body      string
	CreatedAt time.Time
}
