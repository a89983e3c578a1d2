package repositories

import (
	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines data operations for comments.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	ByPost(postID uint) ([]models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id uint) error
	Count() (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new repository bound to the given DB connection.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ByPost returns the post's comments oldest first, with authors loaded.
func (r *commentRepository) ByPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Model(comment).Update("content", comment.Content).Error
}

func (r *commentRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Count(&count).Error
	return count, err
}
