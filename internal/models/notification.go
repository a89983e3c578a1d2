package models

import "time"

// Notification types
const (
	NotifFriendRequest = "friend_request"
	NotifFriendAccept  = "friend_accept"
	NotifNewComment    = "new_comment"
	NotifNewLike       = "new_like"
)

// Notification is one entry in a user's inbox. Immutable after creation
// except for the read flag; the actor reference is nulled if the actor's
// account is deleted, without invalidating the row.
type Notification struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	UserID           uint   `json:"user_id" gorm:"index;not null"` // recipient
	ActorID          *uint  `json:"actor_id,omitempty" gorm:"index"`
	Type             string `json:"type" gorm:"size:50;not null"`
	Content          string `json:"content" gorm:"size:255;not null"`
	Link             string `json:"link,omitempty" gorm:"size:255"`
	SourceEntityID   *uint  `json:"source_entity_id,omitempty"`
	SourceEntityType string `json:"source_entity_type,omitempty" gorm:"size:50"`
	IsRead           bool   `json:"is_read" gorm:"default:false;not null;index"`

	Actor *User `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
