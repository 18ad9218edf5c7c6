package db

import "time"

// UserProfile 定义了用户资料模型，与 User 一一对应
type UserProfile struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"uniqueIndex;not null"`
	Bio          string
	Introduction string
	DisplayName  string
	BlogTitle    string
	Icon         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
