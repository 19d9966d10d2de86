package models

import "time"

// Like represents a like on a post. One per (post, user).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:24;uniqueIndex:idx_like_post_user"` // MongoDB ObjectID hex
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_like_post_user;index"`
	CreatedAt time.Time `json:"created_at"`
}
