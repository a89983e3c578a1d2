package repositories

import (
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository is the append-only per-user inbox. Entries are
// immutable after creation except for the read flag.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListForUser(userID uint) ([]models.Notification, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(id, requestingUserID uint) error
	MarkAllRead(userID uint) (int64, error)
	DetachActor(actorID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new repository bound to the given DB connection.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create appends one entry to the recipient's feed. New entries are unread.
func (r *notificationRepository) Create(n *models.Notification) error {
	n.IsRead = false
	return r.db.Create(n).Error
}

// ListForUser returns the user's notifications, newest first, with the actor loaded.
func (r *notificationRepository) ListForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Preload("Actor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns the number of unread entries for the user.
func (r *notificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead sets the read flag iff requestingUserID is the recipient;
// otherwise apperrors.ErrForbidden.
func (r *notificationRepository) MarkRead(id, requestingUserID uint) error {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return err
	}
	if n.UserID != requestingUserID {
		return apperrors.ErrForbidden
	}
	return r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllRead flips every currently-unread entry for the user in one batch
// and reports how many rows changed; zero is a normal outcome, not a failure.
// Already-read entries are never touched.
func (r *notificationRepository) MarkAllRead(userID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// DetachActor nulls the actor reference on every notification the given user
// raised. Used when the actor's account is deleted; the rows stay valid.
func (r *notificationRepository) DetachActor(actorID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("actor_id = ?", actorID).
		Update("actor_id", nil).Error
}
