package models

import "github.com/google/uuid"

// Service is one unit of work on an order, positioned at a single pipeline
// stage. The stage is referenced by its stable id; display names are
// resolved against the registry at read time, so renaming a stage relabels
// every service without touching service rows.
type Service struct {
	Base
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	Name    string    `gorm:"not null" json:"name"`
	StageID uuid.UUID `gorm:"type:uuid;index" json:"stage_id"`

	// Template instances carry a frozen, newline-delimited copy of the
	// template's constituent service names.
	IsTemplate       bool   `gorm:"default:false" json:"is_template"`
	TemplateServices string `json:"template_services,omitempty"`

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Service) TableName() string {
	return "services"
}
