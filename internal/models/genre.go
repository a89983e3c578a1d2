package models

// Genre is a tag applied to posts. Names are unique (exact, case-sensitive
// match) and a genre cannot be deleted while any post references it.
type Genre struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
}

// GenreRequest defines the request body for creating or renaming a genre
type GenreRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description,omitempty"`
}
