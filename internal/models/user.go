package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles a user can hold. Every account is a User; Admin is granted on top.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is an artist account (PostgreSQL)
type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	Password         string    `json:"-"`                                          // bcrypt hash
	FirebaseUID      *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // nil for local accounts
	DisplayName      string    `json:"display_name" gorm:"size:50;index"`
	Bio              string    `json:"bio" gorm:"size:240"`
	AvatarURL        string    `json:"avatar_url"`
	IsPrivate        bool      `json:"is_private" gorm:"not null;default:false;index"`
	Role             string    `json:"role" gorm:"size:20;not null;default:'User'"`
	Level            int       `json:"level" gorm:"not null;default:1"`
	ExperiencePoints int       `json:"experience_points" gorm:"not null;default:0"`
	Victories        int       `json:"victories" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Name returns the display name, falling back to the email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// UserCompact is the author card embedded in feeds and lists
type UserCompact struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Level       int    `json:"level"`
	IsPrivate   bool   `json:"is_private"`
}

// ToCompact converts a user to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		DisplayName: u.Name(),
		AvatarURL:   u.AvatarURL,
		Level:       u.Level,
		IsPrivate:   u.IsPrivate,
	}
}

type CreateLocalUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=3,max=50"`
	Bio         string `json:"bio" validate:"max=240"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	IsPrivate   bool   `json:"is_private"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
