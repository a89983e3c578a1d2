package models

import "time"

// PostLike records one user's like on one post. The composite primary key
// guarantees at most one row per (user, post) pair; presence of the row is
// the "liked" state.
type PostLike struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
