package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray
	"gorm.io/gorm"
)

// Roles a resolved identity can carry. Chat is strictly user<->admin,
// so these two values are the whole universe.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity record the chat subsystem resolves credentials
// against. Account management itself (registration, passwords, OTP) lives
// outside this service; we only read these rows.
type User struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"type:text;not null" json:"name"`
	Email  string `gorm:"uniqueIndex" json:"email"`
	Role   string `gorm:"type:text;not null;default:'user'" json:"role"`
	Avatar string `gorm:"type:text" json:"avatar"` // opaque media reference

	// Interests holds the ministry/topic tags shown on the profile snippet.
	Interests pq.StringArray `gorm:"type:text[]" json:"interests"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID for the user if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the record carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
