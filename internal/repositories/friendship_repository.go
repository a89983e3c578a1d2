package repositories

import (
	"errors"

	"github.com/otakusphere/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository maintains friend-request state between user pairs.
//
// All mutating operations signal unmet preconditions with a no-op result
// (nil edge / false) instead of an error; callers branch on the result to
// decide user-facing messaging.
type FriendshipRepository interface {
	SendRequest(requesterID, targetID uint) (*models.Friendship, error)
	AcceptRequest(recipientID, requesterID uint) (*models.Friendship, error)
	DeclineRequest(recipientID, requesterID uint) (bool, error)
	Unfriend(userID, friendID uint) (bool, error)

	AreFriends(a, b uint) (bool, error)
	HasPendingRequestTo(from, to uint) (bool, error)
	HasPendingRequestFrom(to, from uint) (bool, error)

	Friends(userID uint) ([]models.User, error)
	PendingReceived(userID uint) ([]models.Friendship, error)
	PendingSent(userID uint) ([]models.Friendship, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new repository bound to the given DB connection.
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// pairScope matches the single row representing the (a, b) pair, whichever
// direction it was created in. Every pair lookup goes through here so the OR
// over both column orderings lives in exactly one place.
func pairScope(a, b uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a)
	}
}

// SendRequest creates a pending edge requester -> target. Returns (nil, nil)
// when the request cannot apply: self-request, a pending edge already exists
// in either direction, or the pair is already friends.
func (r *friendshipRepository) SendRequest(requesterID, targetID uint) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, nil
	}

	var existing models.Friendship
	err := r.db.Scopes(pairScope(requesterID, targetID)).
		Where("status IN ?", []string{models.FriendshipPending, models.FriendshipAccepted}).
		First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	f := &models.Friendship{
		UserID:   requesterID,
		FriendID: targetID,
		Status:   models.FriendshipPending,
	}
	// A concurrent duplicate insert hits the composite PK and surfaces as
	// gorm.ErrDuplicatedKey, which the caller maps to a conflict.
	if err := r.db.Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// AcceptRequest flips the pending edge requester -> recipient to accepted.
// Returns (nil, nil) when no such pending edge exists.
func (r *friendshipRepository) AcceptRequest(recipientID, requesterID uint) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.
		Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, recipientID, models.FriendshipPending).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", f.UserID, f.FriendID).
		Update("status", models.FriendshipAccepted).Error; err != nil {
		return nil, err
	}
	f.Status = models.FriendshipAccepted
	return &f, nil
}

// DeclineRequest deletes the pending edge requester -> recipient. Returns
// false when no such edge exists.
func (r *friendshipRepository) DeclineRequest(recipientID, requesterID uint) (bool, error) {
	res := r.db.
		Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, recipientID, models.FriendshipPending).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unfriend deletes the accepted edge representing the pair. Exactly one
// representative row exists per pair, and exactly that row is deleted.
// Returns false when the users are not friends.
func (r *friendshipRepository) Unfriend(userID, friendID uint) (bool, error) {
	var f models.Friendship
	err := r.db.Scopes(pairScope(userID, friendID)).
		Where("status = ?", models.FriendshipAccepted).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	res := r.db.
		Where("user_id = ? AND friend_id = ?", f.UserID, f.FriendID).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AreFriends reports whether an accepted edge exists for the pair in either direction.
func (r *friendshipRepository) AreFriends(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Scopes(pairScope(a, b)).
		Where("status = ?", models.FriendshipAccepted).
		Count(&count).Error
	return count > 0, err
}

// HasPendingRequestTo reports whether a pending edge from -> to exists.
func (r *friendshipRepository) HasPendingRequestTo(from, to uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ? AND status = ?", from, to, models.FriendshipPending).
		Count(&count).Error
	return count > 0, err
}

// HasPendingRequestFrom reports whether a pending edge from -> to exists,
// seen from the recipient's side.
func (r *friendshipRepository) HasPendingRequestFrom(to, from uint) (bool, error) {
	return r.HasPendingRequestTo(from, to)
}

// Friends returns the deduplicated user records for every accepted
// relationship the user takes part in, from either side of the edge.
func (r *friendshipRepository) Friends(userID uint) ([]models.User, error) {
	asRequester := r.db.Model(&models.Friendship{}).Select("friend_id").
		Where("user_id = ? AND status = ?", userID, models.FriendshipAccepted)
	asReceiver := r.db.Model(&models.Friendship{}).Select("user_id").
		Where("friend_id = ? AND status = ?", userID, models.FriendshipAccepted)

	var friends []models.User
	err := r.db.
		Where("id IN (?) OR id IN (?)", asRequester, asReceiver).
		Find(&friends).Error
	return friends, err
}

// PendingReceived returns requests other users sent to userID.
func (r *friendshipRepository) PendingReceived(userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.Preload("Requester").
		Where("friend_id = ? AND status = ?", userID, models.FriendshipPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// PendingSent returns requests userID sent that are still pending.
func (r *friendshipRepository) PendingSent(userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.Preload("Receiver").
		Where("user_id = ? AND status = ?", userID, models.FriendshipPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}
