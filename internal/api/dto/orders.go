package dto

import (
	"strings"

	"github.com/chadillac/order-tracker/internal/api/validation"
)

type CreateOrderRequest struct {
	BusinessName string            `json:"business_name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	FieldValues  map[string]string `json:"field_values,omitempty"` // field definition id -> value
}

func (r CreateOrderRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.BusinessName) == "" {
		errors["business_name"] = "Business name is required"
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	for fieldID := range r.FieldValues {
		if !validation.IsValidUUID(fieldID) {
			errors["field_values"] = "Field keys must be field definition ids"
			break
		}
	}
	return errors
}

type AddServiceRequest struct {
	CatalogID  string  `json:"catalog_id"`
	TemplateID *string `json:"template_id,omitempty"`
}

func (r AddServiceRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.CatalogID) {
		errors["catalog_id"] = "Catalog entry id is required"
	}
	if r.TemplateID != nil && !validation.IsValidUUID(*r.TemplateID) {
		errors["template_id"] = "Invalid template id"
	}
	return errors
}

type MoveStageRequest struct {
	StageID string `json:"stage_id"`
}

func (r MoveStageRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.StageID) {
		errors["stage_id"] = "Stage id is required"
	}
	return errors
}

// NameRequest covers the admin create/rename payloads that carry a single
// display name (stages, catalog entries, custom fields).
type NameRequest struct {
	Name string `json:"name"`
}

func (r NameRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}
	return errors
}
