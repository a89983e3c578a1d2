package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never serialized
	AvatarURL    string    `json:"avatar_url,omitempty" gorm:"size:255"`
	Bio          string    `json:"bio,omitempty" gorm:"type:text"`
	Role         string    `json:"role" gorm:"size:20;default:'user';not null"`
	IsActive     bool      `json:"is_active" gorm:"default:true;not null"`
	FirebaseUID  string    `json:"firebase_uid,omitempty" gorm:"size:128;index"` // set only when Firebase login is enabled
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCompact is the shape embedded in responses that reference another user.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToCompact strips a user down to the fields safe to embed anywhere.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for login; accepts username or email
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,max=255"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
