package models

// ServiceCatalogEntry is a service name available for selection when adding
// a service to an order. Global, admin-managed.
type ServiceCatalogEntry struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

func (ServiceCatalogEntry) TableName() string {
	return "service_catalog"
}

// CustomFieldDefinition declares an additional contact attribute collected
// on every order.
type CustomFieldDefinition struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

func (CustomFieldDefinition) TableName() string {
	return "custom_fields"
}
