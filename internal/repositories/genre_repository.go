package repositories

import (
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// GenreRepository defines data operations for genres.
type GenreRepository interface {
	Create(genre *models.Genre) error
	Rename(id uint, name, description string) (*models.Genre, error)
	ByID(id uint) (*models.Genre, error)
	ByIDs(ids []uint) ([]models.Genre, error)
	List() ([]models.Genre, error)
	Delete(id uint) error
	Count() (int64, error)
}

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new repository bound to the given DB connection.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

// Create inserts a genre; a name collision hits the unique index and
// surfaces as gorm.ErrDuplicatedKey.
func (r *genreRepository) Create(genre *models.Genre) error {
	return r.db.Create(genre).Error
}

// Rename updates name and description. A name held by any other genre is
// rejected as a duplicate; the match is exact and case-sensitive.
func (r *genreRepository) Rename(id uint, name, description string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, err
	}

	var clash int64
	if err := r.db.Model(&models.Genre{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&clash).Error; err != nil {
		return nil, err
	}
	if clash > 0 {
		return nil, gorm.ErrDuplicatedKey
	}

	genre.Name = name
	genre.Description = description
	if err := r.db.Save(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) ByID(id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) ByIDs(ids []uint) ([]models.Genre, error) {
	var genres []models.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&genres).Error
	return genres, err
}

func (r *genreRepository) List() ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// Delete removes the genre unless any post still references it.
func (r *genreRepository) Delete(id uint) error {
	var referenced int64
	if err := r.db.Table("post_genres").
		Where("genre_id = ?", id).
		Count(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		return apperrors.ErrInUse
	}

	res := r.db.Delete(&models.Genre{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *genreRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Genre{}).Count(&count).Error
	return count, err
}
