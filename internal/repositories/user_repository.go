package repositories

import (
	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines data operations for users.
type UserRepository interface {
	Create(user *models.User) error
	ByID(id uint) (*models.User, error)
	ByUsername(username string) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	ByUsernameOrEmail(identifier string) (*models.User, error)
	ByFirebaseUID(uid string) (*models.User, error)
	List() ([]models.User, error)
	Search(query string) ([]models.User, error)
	Update(user *models.User) error
	SetActive(id uint, active bool) error
	SetRole(id uint, role string) error
	Delete(id uint) error
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user; username/email collisions hit the unique indexes
// and surface as gorm.ErrDuplicatedKey.
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ByUsernameOrEmail resolves a login identifier against both unique columns.
func (r *userRepository) ByUsernameOrEmail(identifier string) (*models.User, error) {
	var user models.User
	err := r.db.
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByFirebaseUID(uid string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// Search matches usernames and emails case-insensitively.
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) SetActive(id uint, active bool) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SetRole(id uint, role string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user and everything they own: posts with their
// comments, media, likes, and genre links; the user's own comments and
// likes; both directions of friend edges; and received notifications.
// Notifications the user raised elsewhere are untouched; callers pair this
// with NotificationRepository.DetachActor in the same transaction.
func (r *userRepository) Delete(id uint) error {
	ownedPosts := r.db.Model(&models.Post{}).Select("id").Where("author_id = ?", id)

	if err := r.db.Where("post_id IN (?)", ownedPosts).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("post_id IN (?)", ownedPosts).Delete(&models.PostMedia{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("post_id IN (?)", ownedPosts).Delete(&models.PostLike{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec(
		"DELETE FROM post_genres WHERE post_id IN (SELECT id FROM posts WHERE author_id = ?)", id,
	).Error; err != nil {
		return err
	}
	if err := r.db.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
		return err
	}

	if err := r.db.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("user_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("user_id = ? OR friend_id = ?", id, id).Delete(&models.Friendship{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		return err
	}

	res := r.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
