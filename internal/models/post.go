package models

import "time"

// Post media kinds
const (
	MediaImage      = "image"
	MediaVideoFile  = "video_file"
	MediaVideoEmbed = "video_embed"
)

// Post is a blog entry tagged with one or more genres.
type Post struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"size:100;not null"`
	Content  string `json:"content" gorm:"type:text;not null"`
	AuthorID uint   `json:"author_id" gorm:"index;not null"`

	Author   *User       `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Genres   []Genre     `json:"genres,omitempty" gorm:"many2many:post_genres;constraint:OnDelete:CASCADE"`
	Media    []PostMedia `json:"media,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments []Comment   `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes    []PostLike  `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostMedia is one attachment on a post: an uploaded image or video file
// (storage path), or an embedded video URL.
type PostMedia struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	PostID        uint      `json:"post_id" gorm:"index;not null"`
	MediaType     string    `json:"media_type" gorm:"size:20;not null"`
	FilePath      string    `json:"file_path" gorm:"size:255;not null"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty" gorm:"size:255"`
	UploadedAt    time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// MediaInput is one media attachment in a post create/update request.
type MediaInput struct {
	MediaType     string `json:"media_type" validate:"required,oneof=image video_file video_embed"`
	FilePath      string `json:"file_path" validate:"required,max=255"`
	ThumbnailPath string `json:"thumbnail_path,omitempty" validate:"omitempty,max=255"`
}

// CreatePostRequest defines the request body for creating a new post.
// A post must carry at least one genre.
type CreatePostRequest struct {
	Title    string       `json:"title" validate:"required,min=1,max=100"`
	Content  string       `json:"content" validate:"required,min=1"`
	GenreIDs []uint       `json:"genre_ids" validate:"required,min=1"`
	Media    []MediaInput `json:"media,omitempty" validate:"omitempty,dive"`
}

// UpdatePostRequest defines the request body for editing a post.
// The genre set is replaced wholesale, not diffed.
type UpdatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=100"`
	Content  string `json:"content" validate:"required,min=1"`
	GenreIDs []uint `json:"genre_ids" validate:"required,min=1"`
}
