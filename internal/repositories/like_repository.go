package repositories

import (
	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository is the engagement ledger: one row per (user, post) pair.
type LikeRepository interface {
	// Toggle flips the user's like on the post and reports the new state:
	// true when the call created a like, false when it removed one.
	Toggle(userID, postID uint) (bool, error)
	Liked(userID, postID uint) (bool, error)
	CountForPost(postID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(userID, postID uint) (bool, error) {
	res := r.db.
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &models.PostLike{UserID: userID, PostID: postID}
	// Two concurrent toggles racing to insert collide on the composite PK;
	// the loser gets gorm.ErrDuplicatedKey, mapped to a retryable conflict.
	if err := r.db.Create(like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *likeRepository) Liked(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) CountForPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
