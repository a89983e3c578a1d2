package models

import "time"

// Friendship statuses
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipDeclined = "declined"
	FriendshipBlocked  = "blocked"
)

// Friendship is one directed edge in the relationship graph: UserID sent the
// request, FriendID received it. A single row represents the pair; flipping
// Status to "accepted" makes the relationship symmetric for query purposes
// without mirroring the row.
type Friendship struct {
	UserID   uint   `json:"user_id" gorm:"primaryKey;check:chk_friendship_pair,user_id <> friend_id"`
	FriendID uint   `json:"friend_id" gorm:"primaryKey"`
	Status   string `json:"status" gorm:"size:20;default:'pending';not null"`

	Requester *User `json:"requester,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Receiver  *User `json:"receiver,omitempty" gorm:"foreignKey:FriendID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
