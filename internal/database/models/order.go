package models

import "github.com/google/uuid"

// Order is a client engagement tracked through the stage pipeline. Archiving
// is the only delete path and is reversible.
type Order struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	BusinessName string    `gorm:"not null" json:"business_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Archived     bool      `gorm:"default:false" json:"archived"`

	// Relationships
	User        *User             `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Services    []Service         `gorm:"foreignKey:OrderID" json:"-"`
	Changes     []Change          `gorm:"foreignKey:OrderID" json:"-"`
	FieldValues []OrderFieldValue `gorm:"foreignKey:OrderID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderFieldValue stores the per-order value of an admin-declared custom
// contact field.
type OrderFieldValue struct {
	Base
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	FieldID uuid.UUID `gorm:"type:uuid;index;not null" json:"field_id"`
	Value   string    `json:"value"`

	Field *CustomFieldDefinition `gorm:"foreignKey:FieldID" json:"field,omitempty"`
}

func (OrderFieldValue) TableName() string {
	return "order_field_values"
}
