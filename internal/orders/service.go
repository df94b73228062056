// Package orders implements the order lifecycle and the batch dashboard
// aggregation. Every mutation and its change-log entry commit in one
// transaction, then clear the view cache.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chadillac/order-tracker/internal/cache"
	"github.com/chadillac/order-tracker/internal/changelog"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyBusinessName    = errors.New("business name must not be empty")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrStageNotFound        = errors.New("stage not found")
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrNoStages             = errors.New("stage registry is empty")
	ErrAlreadyArchived      = errors.New("order is already archived")
	ErrNotArchived          = errors.New("order is not archived")
)

type Service struct {
	db     *gorm.DB
	cache  cache.ViewCache
	logger *slog.Logger
}

func NewService(db *gorm.DB, vc cache.ViewCache, logger *slog.Logger) *Service {
	return &Service{db: db, cache: vc, logger: logger}
}

type CreateInput struct {
	BusinessName string
	Email        string
	Phone        string
	Address      string
	// FieldValues carries per-order values for admin-declared custom
	// fields, keyed by field definition id. Unknown ids are ignored.
	FieldValues map[uuid.UUID]string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error) {
	input.BusinessName = strings.TrimSpace(input.BusinessName)
	if input.BusinessName == "" {
		return nil, ErrEmptyBusinessName
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.First(&owner, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOwnerNotFound
			}
			return err
		}

		order = models.Order{
			UserID:       userID,
			BusinessName: input.BusinessName,
			Email:        input.Email,
			Phone:        input.Phone,
			Address:      input.Address,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if len(input.FieldValues) > 0 {
			var fields []models.CustomFieldDefinition
			if err := tx.Find(&fields).Error; err != nil {
				return err
			}
			for _, field := range fields {
				value, ok := input.FieldValues[field.ID]
				if !ok {
					continue
				}
				fv := models.OrderFieldValue{
					OrderID: order.ID,
					FieldID: field.ID,
					Value:   value,
				}
				if err := tx.Create(&fv).Error; err != nil {
					return err
				}
			}
		}

		return changelog.Record(tx, order.ID, userID, "Order created")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("created order", "id", order.ID, "business", order.BusinessName)
	s.invalidate(ctx)

	return &order, nil
}

// AddService attaches a catalog service to an order at the pipeline's
// initial stage. When a template id is given, the new service freezes a
// copy of that template's constituent service list.
func (s *Service) AddService(ctx context.Context, orderID, userID, catalogID uuid.UUID, templateID *uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		var entry models.ServiceCatalogEntry
		if err := tx.First(&entry, catalogID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCatalogEntryNotFound
			}
			return err
		}

		var initial models.Stage
		if err := tx.Order("position").First(&initial).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoStages
			}
			return err
		}

		service = models.Service{
			OrderID: orderID,
			Name:    entry.Name,
			StageID: initial.ID,
		}

		if templateID != nil {
			var tmpl models.Service
			if err := tx.Where("id = ? AND is_template = ?", *templateID, true).First(&tmpl).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTemplateNotFound
				}
				return err
			}
			service.IsTemplate = true
			service.TemplateServices = tmpl.TemplateServices
		}

		if err := tx.Create(&service).Error; err != nil {
			return err
		}

		return changelog.Record(tx, orderID, userID, fmt.Sprintf("Service %s added", entry.Name))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("added service", "order", orderID, "service", service.ID, "name", service.Name)
	s.invalidate(ctx)

	return &service, nil
}

// MoveOrder moves every service of an order to the target stage in one
// step, with a single change entry.
func (s *Service) MoveOrder(ctx context.Context, orderID, userID, stageID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		var stage models.Stage
		if err := tx.First(&stage, stageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStageNotFound
			}
			return err
		}

		if err := tx.Model(&models.Service{}).
			Where("order_id = ?", orderID).
			Update("stage_id", stageID).Error; err != nil {
			return err
		}

		return changelog.Record(tx, orderID, userID, fmt.Sprintf("Order moved to %s", stage.Name))
	})
	if err != nil {
		return err
	}

	s.logger.Info("moved order", "order", orderID, "stage", stageID)
	s.invalidate(ctx)

	return nil
}

// Archive soft-deletes an order. Archiving an already-archived order is
// rejected rather than logged as a no-op change.
func (s *Service) Archive(ctx context.Context, orderID, userID uuid.UUID) error {
	return s.setArchived(ctx, orderID, userID, true)
}

// Restore reverses an archive.
func (s *Service) Restore(ctx context.Context, orderID, userID uuid.UUID) error {
	return s.setArchived(ctx, orderID, userID, false)
}

func (s *Service) setArchived(ctx context.Context, orderID, userID uuid.UUID, archived bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Archived == archived {
			if archived {
				return ErrAlreadyArchived
			}
			return ErrNotArchived
		}

		if err := tx.Model(&order).Update("archived", archived).Error; err != nil {
			return err
		}

		description := "Order archived"
		if !archived {
			description = "Order restored"
		}
		return changelog.Record(tx, orderID, userID, description)
	})
	if err != nil {
		return err
	}

	s.logger.Info("updated archive flag", "order", orderID, "archived", archived)
	s.invalidate(ctx)

	return nil
}

// Get loads one order with its custom field values.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).
		Preload("FieldValues").
		Preload("FieldValues.Field").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Changes returns an order's full change history, most recent first.
func (s *Service) Changes(ctx context.Context, orderID uuid.UUID) ([]models.Change, error) {
	return changelog.ListByOrder(ctx, s.db, orderID)
}

// ListTemplates returns the template services available for instantiation.
func (s *Service) ListTemplates(ctx context.Context) ([]models.Service, error) {
	var templates []models.Service
	if err := s.db.WithContext(ctx).
		Where("is_template = ?", true).
		Order("created_at").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear view cache", "error", err)
	}
}
