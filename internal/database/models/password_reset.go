package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a pending or approved reset request. Only the bcrypt hash
// of the temporary credential is stored; the plaintext is shown to the
// requester exactly once. Requests never expire on their own.
type PasswordReset struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TempHash    string    `gorm:"not null" json:"-"`
	RequestedAt time.Time `gorm:"not null" json:"requested_at"`
	Approved    bool      `gorm:"default:false" json:"approved"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
