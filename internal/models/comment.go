package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PostID   uint   `json:"post_id" gorm:"index;not null"`
	AuthorID uint   `json:"author_id" gorm:"index;not null"`
	Content  string `json:"content" gorm:"type:text;not null"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
