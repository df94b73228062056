package models

import "github.com/google/uuid"

// Change is one immutable audit entry. Rows are appended in the same
// transaction as the mutation they describe and are never updated or
// deleted; CreatedAt is the server-assigned timestamp of the mutation.
type Change struct {
	Base
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Description string    `gorm:"not null" json:"description"`

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Change) TableName() string {
	return "changes"
}
