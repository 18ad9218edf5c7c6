package db

import "time"

// Like 定义了点赞记录
// 唯一键: user_id + article_id，每个用户对每篇文章至多点赞一次。
type Like struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_likes_user_article;not null"`
	ArticleID uint `gorm:"uniqueIndex:idx_likes_user_article;not null"`
	CreatedAt time.Time
}
