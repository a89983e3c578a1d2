package repositories

import (
	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines data operations for posts and their media.
type PostRepository interface {
	Create(post *models.Post, genres []models.Genre) error
	GetByID(id uint) (*models.Post, error)
	List(page, perPage int) ([]models.Post, int64, error)
	ByAuthor(authorID uint) ([]models.Post, error)
	Update(post *models.Post, genres []models.Genre) error
	Delete(id uint) error
	AddMedia(media *models.PostMedia) error
	Count() (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new repository bound to the given DB connection.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post together with its genre links and media rows.
func (r *postRepository) Create(post *models.Post, genres []models.Genre) error {
	post.Genres = genres
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("Author").
		Preload("Genres").
		Preload("Media").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest first, paginated, with the total count.
func (r *postRepository) List(page, perPage int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	if err := r.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	err := r.db.
		Preload("Author").
		Preload("Genres").
		Preload("Media").
		Order("created_at DESC").
		Offset(offset).Limit(perPage).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) ByAuthor(authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("Genres").
		Preload("Media").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Update writes title and content, then replaces the genre set wholesale.
func (r *postRepository) Update(post *models.Post, genres []models.Genre) error {
	if err := r.db.Model(post).
		Updates(map[string]interface{}{"title": post.Title, "content": post.Content}).Error; err != nil {
		return err
	}
	return r.db.Model(post).Association("Genres").Replace(genres)
}

// Delete removes the post and cascades to its comments, media, likes, and
// genre links. Genres themselves survive.
func (r *postRepository) Delete(id uint) error {
	if err := r.db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("post_id = ?", id).Delete(&models.PostMedia{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM post_genres WHERE post_id = ?", id).Error; err != nil {
		return err
	}

	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) AddMedia(media *models.PostMedia) error {
	return r.db.Create(media).Error
}

func (r *postRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}
