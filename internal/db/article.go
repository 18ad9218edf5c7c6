package db

import "time"

// Article lifecycle states. Publishing is one-way; there is no
// transition back to draft.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article 定义了文章模型
// PublishedAt 非空当且仅当 Status 为 published。
type Article struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Content     string
	AuthorID    uint `gorm:"index;not null"`
	Author      User
	Status      string `gorm:"not null;default:draft"`
	LikeCount   uint   `gorm:"not null;default:0"`
	ReadCount   uint64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ModifiedAt  *time.Time
	PublishedAt *time.Time
}
